// Package criteria holds the fixed review criteria and prompt construction
// for catalog row classification. Update the text centrally so every call
// stays in sync.
package criteria

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to act as a reviewer and answer with
// machine-parseable JSON only.
const SystemPrompt = `You are reviewing scraped app and repository metadata for a health research screen. Decide include/exclude for each entry against the criteria you are given. You must respond ONLY with a JSON object like: {"include": true, "reason": "short explanation under 200 chars"}`

// Summary describes the inclusion/exclusion rules applied to every row.
const Summary = `Decide if an app is RELEVANT (include) or NOT RELEVANT (exclude) for asthma/rhinitis/hay fever support.
Follow these rules:
1) Category: Prefer Medical, Health & Fitness, or Weather. However, if Category is Lifestyle or Productivity but the Title/Description clearly indicates asthma symptom tracking, INCLUDE.
2) Updates: If the update date is missing, look for clues in the description. If the app mentions modern iPhone features, assume it is active.
3) Evidence-based: Strictly EXCLUDE homeopathy/alternative medicine.
4) Relevance: The app must be for tracking, monitoring, or forecasting asthma/hay fever/rhinitis symptoms.`

// Entry carries the row fields that matter for classification.
type Entry struct {
	Index       int
	Title       string
	Genre       string
	Updated     string
	Description string
}

// BuildPrompt renders the user prompt for one catalog entry.
func BuildPrompt(entry Entry) string {
	var b strings.Builder
	b.WriteString("Review this scraped catalog entry and decide include/exclude.\n")
	fmt.Fprintf(&b, "Entry index: %d\n", entry.Index)
	fmt.Fprintf(&b, "Title: %s\n", strings.TrimSpace(entry.Title))
	fmt.Fprintf(&b, "Genre: %s\n", strings.TrimSpace(entry.Genre))
	fmt.Fprintf(&b, "Updated: %s\n", strings.TrimSpace(entry.Updated))
	fmt.Fprintf(&b, "Description:\n%s\n\n", strings.TrimSpace(entry.Description))
	fmt.Fprintf(&b, "Criteria:\n%s\n", Summary)
	b.WriteString("Respond with JSON only.")
	return b.String()
}
