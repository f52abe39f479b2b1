package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/drew/refmap/internal/ports"
)

// ExportMappings writes committed mappings as CSV with the metadata
// comment header. Timestamps are exported as unix seconds.
func ExportMappings(w io.Writer, mappings []ports.Mapping, fingerprint string, now time.Time) error {
	if err := writeMeta(w, fingerprint, now); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"reference_id", "path", "score", "created_at"}); err != nil {
		return fmt.Errorf("write column header: %w", err)
	}
	for _, m := range mappings {
		row := []string{
			m.ReferenceID,
			m.Path,
			strconv.FormatFloat(m.Score, 'f', 4, 64),
			strconv.FormatInt(m.CreatedAt, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write mapping %s: %w", m.ReferenceID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportMappings parses a mapping CSV produced by ExportMappings and
// returns the mappings plus the fingerprint embedded in the comment
// header (empty if the file carries none). The caller decides whether a
// fingerprint mismatch blocks the import.
//
// Import is all-or-nothing: a malformed row aborts the whole import.
func ImportMappings(r io.Reader) ([]ports.Mapping, string, error) {
	br := bufio.NewReader(r)
	meta, err := readMeta(br)
	if err != nil {
		return nil, "", fmt.Errorf("read export header: %w", err)
	}

	rows, err := csv.NewReader(br).ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("read mappings: %w", err)
	}
	if len(rows) == 0 {
		return nil, "", fmt.Errorf("mapping file has no rows")
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	refCol := findColumn(header, "reference_id")
	pathCol := findColumn(header, "path")
	scoreCol := findColumn(header, "score")
	createdCol := findColumn(header, "created_at")
	if refCol < 0 || pathCol < 0 || scoreCol < 0 || createdCol < 0 {
		return nil, "", fmt.Errorf("mapping file missing required columns (have %v)", header)
	}

	mappings := make([]ports.Mapping, 0, len(rows)-1)
	for i, row := range rows[1:] {
		m := ports.Mapping{
			ReferenceID: cleanCell(row[refCol]),
			Path:        cleanCell(row[pathCol]),
		}
		if m.ReferenceID == "" || m.Path == "" {
			return nil, "", fmt.Errorf("mapping row %d: empty reference_id or path", i+2)
		}
		if m.Score, err = strconv.ParseFloat(cleanCell(row[scoreCol]), 64); err != nil {
			return nil, "", fmt.Errorf("mapping row %d: bad score: %w", i+2, err)
		}
		if m.CreatedAt, err = strconv.ParseInt(cleanCell(row[createdCol]), 10, 64); err != nil {
			return nil, "", fmt.Errorf("mapping row %d: bad created_at: %w", i+2, err)
		}
		mappings = append(mappings, m)
	}
	return mappings, meta[metaFingerprint], nil
}
