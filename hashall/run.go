package hashall

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dendrascience/hashall/util"
)

// Options configures a Run.
type Options struct {
	Inputs        []string
	Algorithm     util.Algorithm
	IncludeHidden bool
	Recursive     bool
	Archives      bool
	Format        Format
	// Workers is the pool size; 0 means one per logical CPU.
	Workers    int
	BufferSize int
	// Output receives the result lines. Defaults to os.Stdout.
	Output io.Writer
	Logger *slog.Logger
}

// Run hashes every input and writes one line per hashed unit.
//
// A missing or unreadable input, or invalid options, fail the run and are
// returned. A file or archive that fails while it is being hashed is logged
// and counted in Summary.Failed, and the run carries on.
func Run(opts Options) (Summary, error) {
	if len(opts.Inputs) == 0 {
		return Summary{}, ErrNoInputs
	}
	// check every root up front so a typo fails before anything is printed
	for _, input := range opts.Inputs {
		if _, err := util.StatInput(input); err != nil {
			return Summary{}, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	r := &runner{
		out:    NewFormatter(output, opts.Format),
		logger: logger,
	}
	pool, err := NewPool(PoolOptions{
		Workers:    opts.Workers,
		Algorithm:  opts.Algorithm,
		BufferSize: opts.BufferSize,
		Handler:    r.handle,
		Logger:     logger,
	})
	if err != nil {
		return Summary{}, err
	}
	if err := r.out.Header(); err != nil {
		pool.Shutdown()
		return Summary{}, err
	}

	enumOpts := EnumerateOptions{
		IncludeHidden: opts.IncludeHidden,
		Recursive:     opts.Recursive,
		Archives:      opts.Archives,
	}
	var fatal error
	for job, err := range Enumerate(opts.Inputs, enumOpts) {
		if err != nil {
			fatal = err
			break
		}
		if err := pool.Submit(job); err != nil {
			fatal = err
			break
		}
		r.stats.jobs.Add(1)
	}

	shutdownErr := pool.Shutdown()
	summary := r.stats.snapshot(pool.Failed())
	logger.Debug("run finished",
		"jobs", summary.Jobs,
		"files", summary.Files,
		"entries", summary.Entries,
		"failed", summary.Failed,
	)
	return summary, errors.Join(fatal, shutdownErr)
}

// runner holds the state shared by every worker during one Run.
type runner struct {
	out    *Formatter
	logger *slog.Logger
	stats  stats
}

func (r *runner) handle(d *util.Digester, job Job) error {
	if job.IsArchive() {
		return r.hashArchive(d, job)
	}
	return r.hashFile(d, job)
}

func (r *runner) hashFile(d *util.Digester, job Job) error {
	sum, n, err := d.DigestFile(job.Path)
	if err != nil {
		return err
	}
	r.stats.files.Add(1)
	r.stats.bytes.Add(n)
	return r.out.Emit(sum, job.Path)
}

func (r *runner) hashArchive(d *util.Digester, job Job) error {
	archive, err := util.OpenArchive(job.Path, job.Kind)
	if err != nil {
		return err
	}
	defer archive.Close()

	for entry, err := range archive.Entries() {
		if err != nil {
			return err
		}
		sum, n, err := d.Digest(entry.Reader)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", util.ErrArchiveFormat, entry.Name, err)
		}
		r.stats.entries.Add(1)
		r.stats.bytes.Add(n)
		if err := r.out.Emit(sum, util.EntryLabel(job.Path, entry.Name)); err != nil {
			return err
		}
	}
	r.stats.archives.Add(1)
	return nil
}
