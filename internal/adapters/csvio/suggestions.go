package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/drew/refmap/internal/ports"
)

// ExportSuggestions writes an automatch result as CSV: the metadata
// comment header, a column header, then one row per suggestion in the
// order given. Empty suggested paths are exported as-is with confidence
// "none" so the caller can see which references found nothing.
func ExportSuggestions(w io.Writer, suggestions []ports.Suggestion, fingerprint string, now time.Time) error {
	if err := writeMeta(w, fingerprint, now); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"reference_id", "description", "suggested_path", "score", "confidence"}); err != nil {
		return fmt.Errorf("write column header: %w", err)
	}
	for _, s := range suggestions {
		row := []string{
			s.Reference.ID,
			s.Reference.Description,
			s.SuggestedPath,
			strconv.FormatFloat(s.Score, 'f', 4, 64),
			ports.Confidence(s.Score),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write suggestion %s: %w", s.Reference.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
