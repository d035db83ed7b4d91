package hashall

import "sync/atomic"

// Summary is a snapshot of what a run did.
type Summary struct {
	Jobs     int64 // jobs dispatched
	Files    int64 // plain files hashed
	Archives int64 // archives fully expanded
	Entries  int64 // archive entries hashed
	Bytes    int64 // bytes fed to the hash
	Failed   int64 // jobs that failed
}

// stats is updated concurrently by the workers.
type stats struct {
	jobs     atomic.Int64
	files    atomic.Int64
	archives atomic.Int64
	entries  atomic.Int64
	bytes    atomic.Int64
}

func (s *stats) snapshot(failed int64) Summary {
	return Summary{
		Jobs:     s.jobs.Load(),
		Files:    s.files.Load(),
		Archives: s.archives.Load(),
		Entries:  s.entries.Load(),
		Bytes:    s.bytes.Load(),
		Failed:   failed,
	}
}
