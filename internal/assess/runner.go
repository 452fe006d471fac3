package assess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"sieve/internal/dataset"
	"sieve/internal/logging"
)

// Job names one input table and where its decisions go.
type Job struct {
	Input  string
	Output string
}

// FileResult is the per-file outcome of a directory run. Err is set when the
// file could not be processed at all; the rest of the batch continues.
type FileResult struct {
	Job     Job
	Summary Summary
	Err     error
}

// Runner dispatches per-file jobs through a shared assessor.
type Runner struct {
	assessor *Assessor
	logger   *slog.Logger
	runID    string
	append   bool
}

// NewRunner constructs a runner. Each runner carries a unique run ID that is
// attached to every log line it emits.
func NewRunner(assessor *Assessor, logger *slog.Logger, appendMode bool) *Runner {
	runID := uuid.NewString()
	base := logging.NewComponentLogger(logger, "runner")
	return &Runner{
		assessor: assessor,
		logger:   base.With(logging.String(logging.FieldRunID, runID)),
		runID:    runID,
		append:   appendMode,
	}
}

// RunID returns the identifier for this run.
func (r *Runner) RunID() string {
	return r.runID
}

// RunFile processes a single table. Unreadable input, an unwritable or
// already-locked output, and context cancellation are the only errors.
func (r *Runner) RunFile(ctx context.Context, job Job, opts RangeOptions) (Summary, error) {
	table, err := dataset.ReadTable(job.Input)
	if err != nil {
		return Summary{Input: job.Input, Output: job.Output}, err
	}
	if table.Len() == 0 {
		r.logger.Warn("skipping empty table", logging.String(logging.FieldInput, job.Input))
		return Summary{Input: job.Input, Output: job.Output}, nil
	}

	// One writer per output file. The sidecar lock keeps a second concurrent
	// run from interleaving appends into the same table.
	lock := flock.New(job.Output + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{Input: job.Input, Output: job.Output}, fmt.Errorf("lock output %s: %w", job.Output, err)
	}
	if !locked {
		return Summary{Input: job.Input, Output: job.Output}, fmt.Errorf("output %s is locked by another sieve run", job.Output)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	columns := append(append([]string{}, table.Columns...), OutputColumns...)
	writer, err := dataset.NewWriter(job.Output, columns, r.append)
	if err != nil {
		return Summary{Input: job.Input, Output: job.Output}, err
	}

	r.logger.Info("reviewing table",
		logging.String(logging.FieldInput, job.Input),
		logging.String(logging.FieldOutput, job.Output),
		logging.Int("rows", table.Len()),
	)

	summary, runErr := r.assessor.Run(ctx, table, writer, opts)
	if closeErr := writer.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return summary, runErr
}

// RunDirectory applies RunFile independently to every CSV in dir. One file's
// failure is reported in its result and does not block the others.
func (r *Runner) RunDirectory(ctx context.Context, dir string, opts RangeOptions) ([]FileResult, error) {
	paths, err := dataset.DiscoverCSV(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV files to process in %s", dir)
	}

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		job := Job{Input: path, Output: dataset.ReviewPath(path)}
		summary, err := r.RunFile(ctx, job, opts)
		if err != nil && errors.Is(err, context.Canceled) {
			return results, err
		}
		if err != nil {
			r.logger.Error("table failed",
				logging.String(logging.FieldInput, job.Input),
				logging.Error(err),
			)
		}
		results = append(results, FileResult{Job: job, Summary: summary, Err: err})
	}
	return results, nil
}
