package assess

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"sieve/internal/dataset"
	"sieve/internal/logging"
	"sieve/internal/services/llm"
	"sieve/internal/testsupport"
)

// constantClassifier includes everything.
type constantClassifier struct{}

func (constantClassifier) Classify(context.Context, string, string) (llm.Assessment, error) {
	return llm.Assessment{Include: true, Reason: "ok", Raw: `{"include":true}`, Attempts: 1}, nil
}

func TestRunnerDirectoryIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	// bad.csv has no header row and fails to load; good.csv must still be
	// processed.
	if err := os.WriteFile(filepath.Join(dir, "bad.csv"), nil, 0o644); err != nil {
		t.Fatalf("write bad.csv: %v", err)
	}
	testsupport.WriteCSV(t, filepath.Join(dir, "good.csv"),
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{{"AsthmaLog", "Medical", "2024-01-02", "Track symptoms"}},
	)

	assessor := NewAssessor(constantClassifier{}, logging.NewNop())
	runner := NewRunner(assessor, logging.NewNop(), false)

	results, err := runner.RunDirectory(context.Background(), dir, RangeOptions{})
	if err != nil {
		t.Fatalf("RunDirectory returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected bad.csv to fail")
	}
	if results[1].Err != nil {
		t.Fatalf("expected good.csv to succeed, got %v", results[1].Err)
	}
	if results[1].Summary.Rows != 1 {
		t.Fatalf("expected 1 reviewed row, got %d", results[1].Summary.Rows)
	}

	records := testsupport.ReadCSV(t, dataset.ReviewPath(filepath.Join(dir, "good.csv")))
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row in review output, got %d", len(records))
	}
}

func TestRunnerDirectoryEmpty(t *testing.T) {
	assessor := NewAssessor(constantClassifier{}, logging.NewNop())
	runner := NewRunner(assessor, logging.NewNop(), false)

	if _, err := runner.RunDirectory(context.Background(), t.TempDir(), RangeOptions{}); err == nil {
		t.Fatal("expected error for directory without CSV files")
	}
}

func TestRunnerFileMissingInput(t *testing.T) {
	assessor := NewAssessor(constantClassifier{}, logging.NewNop())
	runner := NewRunner(assessor, logging.NewNop(), false)

	job := Job{Input: filepath.Join(t.TempDir(), "missing.csv"), Output: filepath.Join(t.TempDir(), "out.csv")}
	if _, err := runner.RunFile(context.Background(), job, RangeOptions{}); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunnerFileLockedOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	output := filepath.Join(dir, "out.csv")
	testsupport.WriteCSV(t, input,
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{{"AsthmaLog", "Medical", "", ""}},
	)

	held := flock.New(output + ".lock")
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire competing lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	assessor := NewAssessor(constantClassifier{}, logging.NewNop())
	runner := NewRunner(assessor, logging.NewNop(), false)
	if _, err := runner.RunFile(context.Background(), Job{Input: input, Output: output}, RangeOptions{}); err == nil {
		t.Fatal("expected error when output is locked by another run")
	}
}

func TestRunnerAppendAcrossRanges(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	output := filepath.Join(dir, "out.csv")
	testsupport.WriteCSV(t, input,
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{
			{"One", "Medical", "", ""},
			{"Two", "Medical", "", ""},
		},
	)

	assessor := NewAssessor(constantClassifier{}, logging.NewNop())
	runner := NewRunner(assessor, logging.NewNop(), true)
	job := Job{Input: input, Output: output}

	if _, err := runner.RunFile(context.Background(), job, RangeOptions{Start: 1, End: 1}); err != nil {
		t.Fatalf("first range failed: %v", err)
	}
	if _, err := runner.RunFile(context.Background(), job, RangeOptions{Start: 2, End: 2}); err != nil {
		t.Fatalf("second range failed: %v", err)
	}

	records := testsupport.ReadCSV(t, output)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows without duplicates, got %d", len(records))
	}
	if records[1][0] != "One" || records[2][0] != "Two" {
		t.Fatalf("unexpected appended rows %v %v", records[1], records[2])
	}
}

func TestRunnerRerunTruncates(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	output := filepath.Join(dir, "out.csv")
	testsupport.WriteCSV(t, input,
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{{"One", "Medical", "", ""}},
	)

	assessor := NewAssessor(constantClassifier{}, logging.NewNop())
	runner := NewRunner(assessor, logging.NewNop(), false)
	job := Job{Input: input, Output: output}

	for i := 0; i < 2; i++ {
		if _, err := runner.RunFile(context.Background(), job, RangeOptions{}); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	records := testsupport.ReadCSV(t, output)
	if len(records) != 2 {
		t.Fatalf("expected rerun to rewrite the table, got %d records", len(records))
	}
}

func TestRunnerIDsAreUnique(t *testing.T) {
	assessor := NewAssessor(constantClassifier{}, logging.NewNop())
	a := NewRunner(assessor, logging.NewNop(), false)
	b := NewRunner(assessor, logging.NewNop(), false)
	if a.RunID() == "" || a.RunID() == b.RunID() {
		t.Fatalf("expected distinct run IDs, got %q and %q", a.RunID(), b.RunID())
	}
}
