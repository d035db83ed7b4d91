// Package hashall implements the concurrent hashing pipeline behind the
// hashall command.
//
// A run walks every input root, classifies each file it finds, and hands one
// Job per file to a fixed pool of workers. Each worker owns a util.Digester,
// so no hashing state is ever shared, and writes its result lines through a
// shared Formatter as soon as a job completes. Lines from different jobs may
// appear in any order; lines from one archive always appear in the order the
// entries are stored.
//
// Key Features:
//   - Streaming digests with one reusable buffer per worker
//   - Archive mode expanding zip, tar, tar.gz, tar.zst, tar.bz2 and tar.xz
//   - Checksum-tool ("sum") and CSV output with line-atomic writes
//   - Per-job failures are logged and counted without stopping the run;
//     unreadable inputs abort it
//
// The main entry point is Run. Enumerate exposes the job list without
// hashing anything.
package hashall
