package hashall

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dendrascience/hashall/util"
	"golang.org/x/sync/errgroup"
)

// Job is one unit of dispatch: a plain file hashed whole, or an archive
// whose entries are hashed one by one.
type Job struct {
	Path string
	Kind util.ArchiveKind
}

// FileJob hashes path as a single unit.
func FileJob(path string) Job {
	return Job{Path: path, Kind: util.NotArchive}
}

// ArchiveJob expands path as kind and hashes every entry.
func ArchiveJob(path string, kind util.ArchiveKind) Job {
	return Job{Path: path, Kind: kind}
}

// IsArchive reports whether the job expands a container.
func (j Job) IsArchive() bool { return j.Kind.IsArchive() }

// Handler processes one job using the calling worker's Digester.
type Handler func(d *util.Digester, job Job) error

// PoolOptions configures a Pool.
type PoolOptions struct {
	// Workers is the number of workers; 0 means one per logical CPU.
	Workers    int
	Algorithm  util.Algorithm
	BufferSize int
	Handler    Handler
	Logger     *slog.Logger
}

// Pool is a fixed set of workers fed from one job queue.
type Pool struct {
	jobs    chan Job
	group   errgroup.Group
	handle  Handler
	logger  *slog.Logger
	workers int

	mu     sync.RWMutex
	closed bool

	failed atomic.Int64
}

// NewPool validates opts and starts the workers. Each worker allocates its
// own Digester on start and drops it when the queue is closed and drained.
func NewPool(opts PoolOptions) (*Pool, error) {
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, opts.Workers)
	}
	if opts.BufferSize <= 0 {
		return nil, util.ErrBufferSize
	}
	if _, err := util.ParseAlgorithm(opts.Algorithm.String()); err != nil {
		return nil, err
	}
	if opts.Handler == nil {
		return nil, fmt.Errorf("worker pool needs a job handler")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pool{
		jobs:    make(chan Job, workers),
		handle:  opts.Handler,
		logger:  logger,
		workers: workers,
	}
	for id := range workers {
		p.group.Go(func() error {
			d, err := util.NewDigester(opts.Algorithm, opts.BufferSize)
			if err != nil {
				// drain so producers never block on a dead worker
				for range p.jobs {
				}
				return err
			}
			p.work(id, d)
			return nil
		})
	}
	logger.Debug("worker pool started", "workers", workers, "algorithm", opts.Algorithm, "buffer", opts.BufferSize)
	return p, nil
}

// Workers returns the resolved worker count.
func (p *Pool) Workers() int { return p.workers }

// Failed returns the number of jobs that have failed so far.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Submit queues a job, blocking while every worker is busy and the queue is
// full. It fails once Shutdown has been called.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.jobs <- job
	return nil
}

// Shutdown stops accepting jobs and waits until every queued job has been
// processed and every worker has exited. It is safe to call more than once.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	return p.group.Wait()
}

func (p *Pool) work(id int, d *util.Digester) {
	logger := p.logger.With("worker", id)
	for job := range p.jobs {
		if err := p.run(d, job); err != nil {
			p.failed.Add(1)
			logger.Error("job failed", "path", err.Job.Path, "kind", err.Job.Kind.String(), "err", err.Err)
		}
	}
	logger.Debug("worker stopped")
}

// run executes one job, converting a failure or panic into a JobError so the
// worker loop always survives.
func (p *Pool) run(d *util.Digester, job Job) (jobErr *JobError) {
	defer func() {
		if r := recover(); r != nil {
			jobErr = &JobError{Job: job, Err: fmt.Errorf("%w: %v", ErrJobPanic, r)}
		}
	}()
	if err := p.handle(d, job); err != nil {
		return &JobError{Job: job, Err: err}
	}
	return nil
}
