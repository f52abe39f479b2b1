// Package csvio reads and writes the CSV formats at the tool's edges:
// reference imports, suggestion exports, and mapping exports/imports.
// Exports carry a comment header with the export time and a corpus
// fingerprint so a later import can detect that the folder structure
// changed underneath the mapping set.
package csvio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Metadata comment keys. Lines look like "# refmap:fingerprint=a1b2c3".
const (
	metaPrefix      = "# refmap:"
	metaExported    = "exported"
	metaFingerprint = "fingerprint"
)

// cleanCell normalizes one CSV cell: surrounding whitespace and a UTF-8
// BOM (common in spreadsheet exports) are stripped.
func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

// findColumn returns the index of the first header cell matching any
// candidate, case-insensitively, or -1.
func findColumn(header []string, candidates ...string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

// writeMeta emits the comment header carried by every export.
func writeMeta(w io.Writer, fingerprint string, now time.Time) error {
	_, err := fmt.Fprintf(w, "%s%s=%s\n%s%s=%s\n",
		metaPrefix, metaExported, now.UTC().Format(time.RFC3339),
		metaPrefix, metaFingerprint, fingerprint)
	return err
}

// readMeta consumes leading comment lines from br and returns any
// metadata found. Unknown keys and plain comments are skipped. The
// reader is left positioned at the first non-comment line.
func readMeta(br *bufio.Reader) (map[string]string, error) {
	meta := make(map[string]string)
	for {
		peek, err := br.Peek(1)
		if err == io.EOF {
			return meta, nil
		}
		if err != nil {
			return nil, err
		}
		if peek[0] != '#' {
			return meta, nil
		}

		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if rest, ok := strings.CutPrefix(line, metaPrefix); ok {
			if key, value, found := strings.Cut(rest, "="); found {
				meta[key] = value
			}
		}
		if err == io.EOF {
			return meta, nil
		}
	}
}
