package criteria

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Entry{
		Index:       7,
		Title:       "AsthmaLog",
		Genre:       "Medical",
		Updated:     "2024-01-02",
		Description: "Track asthma symptoms daily.",
	})

	for _, want := range []string{
		"Entry index: 7",
		"Title: AsthmaLog",
		"Genre: Medical",
		"Updated: 2024-01-02",
		"Track asthma symptoms daily.",
		Summary,
		"Respond with JSON only.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptTrimsFields(t *testing.T) {
	prompt := BuildPrompt(Entry{Title: "  Spaced  ", Genre: "\tWeather\n"})
	if !strings.Contains(prompt, "Title: Spaced\n") {
		t.Fatalf("expected trimmed title, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Genre: Weather\n") {
		t.Fatalf("expected trimmed genre, got:\n%s", prompt)
	}
}

func TestSystemPromptDemandsJSON(t *testing.T) {
	if !strings.Contains(SystemPrompt, "JSON") {
		t.Fatal("system prompt must demand JSON output")
	}
}
