package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/drew/refmap/internal/adapters/socket"
	"github.com/drew/refmap/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// useColor is decided once per process; piped output stays plain.
var useColor = isStdoutTTY()

func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

// confidenceColor maps a score band to its display color.
func confidenceColor(score float64) string {
	switch ports.Confidence(score) {
	case "high":
		return colorGreen
	case "medium":
		return colorYellow
	default:
		return colorGray
	}
}

// formatMatches renders a search result for terminal display.
//
//	⚡ 2 matches │ 3ms
//	  0.74  discovery/exhibit-1.pdf
func formatMatches(result *socket.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s │ %s\n",
		paint(colorBold, fmt.Sprintf("⚡ %d matches", result.Count)), result.Elapsed))
	for _, m := range result.Matches {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			paint(confidenceColor(m.Score), fmt.Sprintf("%.2f", m.Score)),
			paint(colorCyan, m.Path)))
	}
	return sb.String()
}

// formatBrowse renders the unranked path listing used when search is
// called without a term.
func formatBrowse(result *socket.PathsResult) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d paths", result.Count)) + "\n")
	for _, p := range result.Paths {
		sb.WriteString(fmt.Sprintf("  %s\n", paint(colorCyan, p)))
	}
	return sb.String()
}

// formatAutoMatchSummary renders the one-line automatch tally.
func formatAutoMatchSummary(result *socket.AutoMatchResult, elapsed string) string {
	unmatched := 0
	for _, s := range result.Suggestions {
		if s.SuggestedPath == "" {
			unmatched++
		}
	}
	return fmt.Sprintf("%s │ %d high │ %d medium │ %d low │ %d unmatched │ %s\n",
		paint(colorBold, fmt.Sprintf("⚡ %d references", len(result.Suggestions))),
		result.High, result.Medium, result.Low, unmatched, elapsed)
}

// formatSuggestions renders an automatch result, one line per reference
// in input order, unmatched references shown explicitly.
func formatSuggestions(result *socket.AutoMatchResult, elapsed string) string {
	var sb strings.Builder
	sb.WriteString(formatAutoMatchSummary(result, elapsed))

	for _, s := range result.Suggestions {
		if s.SuggestedPath == "" {
			sb.WriteString(fmt.Sprintf("  %s  [%s] %s → %s\n",
				paint(colorGray, " .  "), s.Reference.ID, s.Reference.Description,
				paint(colorGray, "(no match)")))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s  [%s] %s → %s\n",
			paint(confidenceColor(s.Score), fmt.Sprintf("%.2f", s.Score)),
			s.Reference.ID, s.Reference.Description,
			paint(colorCyan, s.SuggestedPath)))
	}
	return sb.String()
}

// formatHealth renders a health result for terminal display.
func formatHealth(h *socket.HealthResult) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, "⚡ refmap daemon") + "\n")
	sb.WriteString(fmt.Sprintf("  Status:  %s\n", paint(colorGreen, h.Status)))
	sb.WriteString(fmt.Sprintf("  Paths:   %d\n", h.PathCount))
	sb.WriteString(fmt.Sprintf("  Tokens:  %d\n", h.TokenCount))
	sb.WriteString(fmt.Sprintf("  Uptime:  %s\n", h.Uptime))
	return sb.String()
}

// formatStats renders daemon statistics for terminal display.
func formatStats(s *socket.StatsResult) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, "⚡ refmap stats") + "\n")
	sb.WriteString(fmt.Sprintf("  Root:         %s\n", s.Root))
	sb.WriteString(fmt.Sprintf("  Fingerprint:  %s\n", s.Fingerprint))
	sb.WriteString(fmt.Sprintf("  Paths:        %d\n", s.PathCount))
	sb.WriteString(fmt.Sprintf("  Tokens:       %d\n", s.TokenCount))
	sb.WriteString(fmt.Sprintf("  References:   %d\n", s.ReferenceCount))
	sb.WriteString(fmt.Sprintf("  Mappings:     %d\n", s.MappingCount))
	sb.WriteString(fmt.Sprintf("  Rebuilds:     %d\n", s.Rebuilds))
	sb.WriteString(fmt.Sprintf("  Uptime:       %s\n", s.Uptime))
	return sb.String()
}

// formatReferences renders the stored reference list.
func formatReferences(refs []ports.Reference) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d references", len(refs))) + "\n")
	for _, r := range refs {
		sb.WriteString(fmt.Sprintf("  %-12s %s", r.ID, r.Description))
		if r.Date != "" {
			sb.WriteString(fmt.Sprintf("  %s", paint(colorGray, r.Date)))
		}
		if r.Generated {
			sb.WriteString(fmt.Sprintf("  %s", paint(colorGray, "(generated id)")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatMappings renders the committed mapping list.
func formatMappings(mappings []ports.Mapping) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d mappings", len(mappings))) + "\n")
	for _, m := range mappings {
		created := time.Unix(m.CreatedAt, 0).Format("2006-01-02 15:04")
		sb.WriteString(fmt.Sprintf("  %-12s → %s  %s\n",
			m.ReferenceID, paint(colorCyan, m.Path),
			paint(colorGray, fmt.Sprintf("%.2f %s", m.Score, created))))
	}
	return sb.String()
}
