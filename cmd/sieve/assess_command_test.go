package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sieve/internal/testsupport"
)

func writeTestConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
output_dir = "` + filepath.Join(dir, "review") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[llm]
api_key = "test"
base_url = "` + baseURL + `"
model = "demo-model"

[assess]
sleep_seconds = 0.0
max_retries = 1
backoff_seconds = 0.1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func includeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{
						"content": `{"include":true,"reason":"relevant"}`,
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAssessSingleFile(t *testing.T) {
	server := includeServer(t)
	defer server.Close()

	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, server.URL)
	input := filepath.Join(dir, "apps.csv")
	output := filepath.Join(dir, "apps_review.csv")
	testsupport.WriteCSV(t, input,
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{
			{"AsthmaLog", "Medical", "2024-01-02", "Track asthma symptoms"},
			{"PollenCast", "Weather", "2025-03-01", "Pollen forecasts"},
		},
	)

	out, err := runCommand(t, "--config", configPath, "assess", "--csv", input, "--out", output, "--sleep", "0")
	if err != nil {
		t.Fatalf("assess failed: %v\n%s", err, out)
	}

	records := testsupport.ReadCSV(t, output)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	header := records[0]
	if header[len(header)-3] != "decision" || header[len(header)-2] != "rationale" || header[len(header)-1] != "raw_response" {
		t.Fatalf("unexpected output header %v", header)
	}
	if records[1][4] != "include" || records[2][4] != "include" {
		t.Fatalf("expected include decisions, got %v %v", records[1], records[2])
	}
	if !strings.Contains(out, "apps.csv") {
		t.Fatalf("expected summary table to mention input, got %q", out)
	}
}

func TestAssessRangeFlags(t *testing.T) {
	server := includeServer(t)
	defer server.Close()

	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, server.URL)
	input := filepath.Join(dir, "apps.csv")
	output := filepath.Join(dir, "out.csv")
	testsupport.WriteCSV(t, input,
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{
			{"One", "Medical", "", ""},
			{"Two", "Medical", "", ""},
			{"Three", "Medical", "", ""},
		},
	)

	out, err := runCommand(t, "--config", configPath, "assess",
		"--csv", input, "--out", output, "--sleep", "0", "--start", "2", "--end", "2")
	if err != nil {
		t.Fatalf("assess failed: %v\n%s", err, out)
	}

	records := testsupport.ReadCSV(t, output)
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	if records[1][0] != "Two" {
		t.Fatalf("expected row Two, got %v", records[1])
	}
}

func TestAssessInvalidRange(t *testing.T) {
	server := includeServer(t)
	defer server.Close()

	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, server.URL)

	if _, err := runCommand(t, "--config", configPath, "assess",
		"--csv", filepath.Join(dir, "in.csv"), "--start", "5", "--end", "2"); err == nil {
		t.Fatal("expected error for start > end")
	}
}

func TestAssessDirectoryMode(t *testing.T) {
	server := includeServer(t)
	defer server.Close()

	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, server.URL)
	dataDir := filepath.Join(dir, "tables")
	testsupport.WriteCSV(t, filepath.Join(dataDir, "first.csv"),
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{{"One", "Medical", "", ""}},
	)
	testsupport.WriteCSV(t, filepath.Join(dataDir, "second.csv"),
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{{"Two", "Medical", "", ""}},
	)

	out, err := runCommand(t, "--config", configPath, "assess", "--dir", dataDir, "--sleep", "0")
	if err != nil {
		t.Fatalf("assess failed: %v\n%s", err, out)
	}

	for _, name := range []string{"first_review.csv", "second_review.csv"} {
		records := testsupport.ReadCSV(t, filepath.Join(dataDir, name))
		if len(records) != 2 {
			t.Fatalf("%s: expected header + 1 row, got %d", name, len(records))
		}
	}
}

func TestAssessDirectoryModePartialFailure(t *testing.T) {
	server := includeServer(t)
	defer server.Close()

	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, server.URL)
	dataDir := filepath.Join(dir, "tables")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// broken.csv has no header and must not block ok.csv.
	if err := os.WriteFile(filepath.Join(dataDir, "broken.csv"), nil, 0o644); err != nil {
		t.Fatalf("write broken.csv: %v", err)
	}
	testsupport.WriteCSV(t, filepath.Join(dataDir, "ok.csv"),
		[]string{"App Name", "Genre", "updated", "Description"},
		[][]string{{"One", "Medical", "", ""}},
	)

	out, err := runCommand(t, "--config", configPath, "assess", "--dir", dataDir, "--sleep", "0")
	if err == nil {
		t.Fatal("expected non-zero result when a table fails")
	}
	if !strings.Contains(out, "ok.csv") {
		t.Fatalf("expected summary to include processed file, got %q", out)
	}

	records := testsupport.ReadCSV(t, filepath.Join(dataDir, "ok_review.csv"))
	if len(records) != 2 {
		t.Fatalf("expected ok.csv to be fully processed, got %d records", len(records))
	}
}

func TestAssessMissingCredential(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
log_dir = "` + filepath.Join(dir, "logs") + `"
output_dir = "` + filepath.Join(dir, "review") + `"
data_dir = "` + filepath.Join(dir, "data") + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SIEVE_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := runCommand(t, "--config", path, "assess", "--csv", filepath.Join(dir, "in.csv"))
	if err == nil {
		t.Fatal("expected failure without credential")
	}
	if !strings.Contains(err.Error(), "SIEVE_API_KEY") {
		t.Fatalf("expected credential error, got %v", err)
	}
}

func TestHealthCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"content": `{"ok":true}`},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, server.URL)

	out, err := runCommand(t, "--config", configPath, "health")
	if err != nil {
		t.Fatalf("health failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "reachable") {
		t.Fatalf("unexpected health output %q", out)
	}
}
