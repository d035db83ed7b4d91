package hashall

import (
	"iter"

	"github.com/dendrascience/hashall/util"
)

// EnumerateOptions is the discovery policy for a run.
type EnumerateOptions struct {
	IncludeHidden bool
	Recursive     bool
	// Archives turns files with archive names into archive jobs.
	Archives bool
}

// Enumerate yields the jobs for every input root in order. Any error is
// fatal to the run and ends the sequence.
func Enumerate(inputs []string, opts EnumerateOptions) iter.Seq2[Job, error] {
	walkOpts := util.WalkOptions{
		IncludeHidden: opts.IncludeHidden,
		Recursive:     opts.Recursive,
	}
	return func(yield func(Job, error) bool) {
		for _, input := range inputs {
			for path, err := range util.Walk(input, walkOpts) {
				if err != nil {
					yield(Job{}, err)
					return
				}
				if !yield(classify(path, opts.Archives), nil) {
					return
				}
			}
		}
	}
}

func classify(path string, archives bool) Job {
	if archives {
		if kind := util.Classify(path); kind.IsArchive() {
			return ArchiveJob(path, kind)
		}
	}
	return FileJob(path)
}
