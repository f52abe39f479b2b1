package ports

// Reference is a textual description the user wants matched to a file path.
// IDs are assigned at creation and never reused. Generated marks IDs that
// were synthesized at import time because the input had no id column.
type Reference struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	ExternalRef string `json:"external_ref,omitempty"`
	Generated   bool   `json:"generated,omitempty"`
}

// RankedMatch is one search result. Score is a similarity estimate, not a
// probability: it ranks candidates within a single query and is not
// comparable across queries.
type RankedMatch struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// Suggestion pairs one reference with its best available path, or with an
// empty path when no candidate cleared the minimum-score gate. The bool
// flags carry caller triage state; the engine leaves them false.
type Suggestion struct {
	Reference     Reference `json:"reference"`
	SuggestedPath string    `json:"suggested_path"`
	Score         float64   `json:"score"`
	Accepted      bool      `json:"accepted,omitempty"`
	Rejected      bool      `json:"rejected,omitempty"`
	Selected      bool      `json:"selected,omitempty"`
}

// AutoMatchResult is the outcome of one automatch pass. Suggestions appear
// in the caller's original reference order, one per input reference.
// Counts cover suggestions with a non-empty path only:
// high > 0.7, medium in [0.4, 0.7], low in (0, 0.4).
type AutoMatchResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	High        int          `json:"high"`
	Medium      int          `json:"medium"`
	Low         int          `json:"low"`
}

// Confidence returns the band name for a suggestion score, matching the
// counting rules of AutoMatchResult. Empty-path suggestions are "none".
func Confidence(score float64) string {
	switch {
	case score > 0.7:
		return "high"
	case score >= 0.4:
		return "medium"
	case score > 0:
		return "low"
	default:
		return "none"
	}
}

// ProgressFunc receives advisory progress during bulk operations.
// done counts references processed so far out of total. Implementations
// must tolerate being called from the engine's goroutine.
type ProgressFunc func(done, total int)
