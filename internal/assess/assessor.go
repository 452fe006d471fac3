package assess

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sieve/internal/criteria"
	"sieve/internal/dataset"
	"sieve/internal/logging"
	"sieve/internal/services/llm"
)

// Classifier asks the remote service for an include/exclude decision.
type Classifier interface {
	Classify(ctx context.Context, systemPrompt, userPrompt string) (llm.Assessment, error)
}

// RangeOptions selects which rows of a table are reviewed.
type RangeOptions struct {
	// Start and End are 1-based inclusive bounds, clamped to the table.
	// Zero means "from the first row" / "to the last row".
	Start int
	End   int
}

// Assessor resolves one row at a time, sequentially, sleeping between rows to
// respect upstream rate limits.
type Assessor struct {
	classifier Classifier
	logger     *slog.Logger
	sleep      time.Duration
	sleeper    func(time.Duration)
}

// AssessorOption customizes the assessor.
type AssessorOption func(*Assessor)

// WithRowSleep sets the pause between row completions.
func WithRowSleep(d time.Duration) AssessorOption {
	return func(a *Assessor) {
		if d >= 0 {
			a.sleep = d
		}
	}
}

// WithSleeper overrides how inter-row sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) AssessorOption {
	return func(a *Assessor) {
		a.sleeper = sleeper
	}
}

// NewAssessor constructs an assessor. A nil logger is replaced with a no-op.
func NewAssessor(classifier Classifier, logger *slog.Logger, opts ...AssessorOption) *Assessor {
	a := &Assessor{
		classifier: classifier,
		logger:     logging.NewComponentLogger(logger, "assess"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// clampRange resolves the 1-based inclusive bounds against the table size.
// The returned range is empty when start exceeds end.
func clampRange(opts RangeOptions, rows int) (int, int) {
	start := opts.Start
	if start < 1 {
		start = 1
	}
	end := opts.End
	if end < 1 || end > rows {
		end = rows
	}
	return start, end
}

// Run reviews the selected rows of table and appends one decision per row to
// writer, in row order. Per-row failures are absorbed into uncertain
// decisions; only writer failures and context cancellation abort.
func (a *Assessor) Run(ctx context.Context, table *dataset.Table, writer *dataset.Writer, opts RangeOptions) (Summary, error) {
	summary := Summary{Input: table.Path, Output: writer.Path()}

	start, end := clampRange(opts, table.Len())
	for i := start; i <= end; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		row := table.Row(i - 1)
		decision := a.assessRow(ctx, i, row)

		record := append(row.Values(), string(decision.Outcome), decision.Rationale, decision.Raw)
		if err := writer.Append(record); err != nil {
			return summary, err
		}
		summary.count(decision.Outcome)

		a.logger.Info("row reviewed",
			logging.Int(logging.FieldRow, i),
			logging.String(logging.FieldDecision, string(decision.Outcome)),
			logging.Int(logging.FieldAttempt, decision.Attempts),
			logging.String("title", truncate(decision.Title, 40)),
		)

		if i < end {
			a.pause(ctx)
		}
	}

	return summary, nil
}

func (a *Assessor) assessRow(ctx context.Context, index int, row dataset.Row) Decision {
	entry := criteria.Entry{
		Index:       index,
		Title:       row.First("App Name", "title", "name", "repo_name"),
		Genre:       row.First("Genre", "genre", "category"),
		Updated:     row.First("updated", "last_updated", "pushed_at"),
		Description: row.First("Description", "description"),
	}
	prompt := criteria.BuildPrompt(entry)

	assessment, err := a.classifier.Classify(ctx, criteria.SystemPrompt, prompt)
	if err != nil {
		return a.uncertainDecision(index, entry.Title, err)
	}

	outcome := OutcomeExclude
	if assessment.Include {
		outcome = OutcomeInclude
	}
	return Decision{
		RowIndex:  index,
		Title:     entry.Title,
		Outcome:   outcome,
		Rationale: assessment.Reason,
		Raw:       assessment.Raw,
		Attempts:  assessment.Attempts,
	}
}

// uncertainDecision converts a classification failure into a reviewable
// record instead of aborting the batch.
func (a *Assessor) uncertainDecision(index int, title string, err error) Decision {
	decision := Decision{
		RowIndex:  index,
		Title:     title,
		Outcome:   OutcomeUncertain,
		Rationale: err.Error(),
		Attempts:  1,
	}

	var parseErr *llm.ParseError
	if errors.As(err, &parseErr) {
		// Keep the unparseable payload so a human can judge it later.
		decision.Raw = parseErr.Raw
		decision.Rationale = parseErr.Raw
		a.logger.Warn("unparseable model response",
			logging.Int(logging.FieldRow, index),
			logging.Error(err),
		)
		return decision
	}

	var exhausted *llm.RetriesExhaustedError
	if errors.As(err, &exhausted) {
		decision.Attempts = exhausted.Attempts
		a.logger.Warn("retries exhausted",
			logging.Int(logging.FieldRow, index),
			logging.Int(logging.FieldAttempt, exhausted.Attempts),
			logging.Error(err),
		)
		return decision
	}

	a.logger.Warn("classification failed",
		logging.Int(logging.FieldRow, index),
		logging.Error(err),
	)
	return decision
}

func (a *Assessor) pause(ctx context.Context) {
	if a.sleep <= 0 || ctx.Err() != nil {
		return
	}
	if a.sleeper != nil {
		a.sleeper(a.sleep)
		return
	}
	timer := time.NewTimer(a.sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
