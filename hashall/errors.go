package hashall

import (
	"errors"
	"fmt"
)

var (
	ErrNoInputs   = errors.New("at least one input path is required")
	ErrNoWorkers  = errors.New("worker pool needs at least one worker")
	ErrPoolClosed = errors.New("worker pool is shut down")
	ErrJobPanic   = errors.New("job panicked")
)

// JobError records why a single job failed. It never stops the run.
type JobError struct {
	Job Job
	Err error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Job.Kind, e.Job.Path, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }
