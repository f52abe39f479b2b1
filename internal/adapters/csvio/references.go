package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/drew/refmap/internal/ports"
)

// descriptionAliases are the header names accepted for the description
// column, checked in order.
var descriptionAliases = []string{"description", "desc", "reference", "title"}

// ImportReferences parses a reference CSV. The header row must contain a
// description column (see descriptionAliases); id, date, and external_ref
// (alias ref) columns are optional. Rows with a blank description are
// skipped. When the input carries no usable id, one is synthesized in
// import order and the reference is marked Generated.
//
// Import is all-or-nothing: any structural error aborts with no partial
// result, and the encoding/csv errors carry the offending line number.
func ImportReferences(r io.Reader) ([]ports.Reference, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read references: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("reference file is empty")
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}

	descCol := findColumn(header, descriptionAliases...)
	if descCol < 0 {
		return nil, fmt.Errorf("no description column (accepted headers: %v)", descriptionAliases)
	}
	idCol := findColumn(header, "id")
	dateCol := findColumn(header, "date")
	extCol := findColumn(header, "external_ref", "ref")

	refs := make([]ports.Reference, 0, len(rows)-1)
	for _, row := range rows[1:] {
		desc := cleanCell(row[descCol])
		if desc == "" {
			continue
		}

		ref := ports.Reference{Description: desc}
		if idCol >= 0 {
			ref.ID = cleanCell(row[idCol])
		}
		if ref.ID == "" {
			ref.ID = fmt.Sprintf("ref-%04d", len(refs)+1)
			ref.Generated = true
		}
		if dateCol >= 0 {
			ref.Date = cleanCell(row[dateCol])
		}
		if extCol >= 0 {
			ref.ExternalRef = cleanCell(row[extCol])
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
