package assess

// Outcome is the classification result for one row.
type Outcome string

const (
	OutcomeInclude   Outcome = "include"
	OutcomeExclude   Outcome = "exclude"
	OutcomeUncertain Outcome = "uncertain"
)

// Decision records the classification of a single catalog row. Decisions are
// append-only: reprocessing a row produces a new record rather than mutating
// history.
type Decision struct {
	// RowIndex is the 1-based position in the source table.
	RowIndex  int
	Title     string
	Outcome   Outcome
	Rationale string
	// Raw preserves the model's payload verbatim for later manual review.
	Raw      string
	Attempts int
}

// OutputColumns are appended to the source columns in the output table.
var OutputColumns = []string{"decision", "rationale", "raw_response"}

// Summary aggregates one processed table.
type Summary struct {
	Input     string
	Output    string
	Rows      int
	Included  int
	Excluded  int
	Uncertain int
}

func (s *Summary) count(outcome Outcome) {
	s.Rows++
	switch outcome {
	case OutcomeInclude:
		s.Included++
	case OutcomeExclude:
		s.Excluded++
	default:
		s.Uncertain++
	}
}
