package dataset

import (
	"strconv"

	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
)

// QueryRow is one lookup in a batch input file. Parquet files use the flat
// columns; JSONL lines may also nest identifiers under "ids" the way the
// HTTP API accepts them.
type QueryRow struct {
	ID        string `json:"id" parquet:"id"`
	Name      string `json:"name" parquet:"name"`
	Text      string `json:"text" parquet:"text"`
	ISBN13    string `json:"isbn13" parquet:"isbn13"`
	EditionID string `json:"openlibrary_edition_id" parquet:"openlibrary_edition_id"`
	WorkID    string `json:"openlibrary_work_id" parquet:"openlibrary_work_id"`
}

// jsonRow accepts the nested "ids" object next to the flat columns.
type jsonRow struct {
	QueryRow
	IDs *lookup.IDs `json:"ids"`
}

func (j jsonRow) flatten() QueryRow {
	row := j.QueryRow
	if j.IDs == nil {
		return row
	}
	if row.ISBN13 == "" {
		row.ISBN13 = j.IDs.ISBN13
	}
	if row.EditionID == "" {
		row.EditionID = j.IDs.EditionID
	}
	if row.WorkID == "" {
		row.WorkID = j.IDs.WorkID
	}
	return row
}

// Query returns the explicit name and identifiers of the row. Text is left
// for a query parser.
func (r QueryRow) Query() lookup.Query {
	q := lookup.Query{Name: r.Name}
	ids := lookup.IDs{ISBN13: r.ISBN13, EditionID: r.EditionID, WorkID: r.WorkID}
	if ids != (lookup.IDs{}) {
		q.IDs = &ids
	}
	return q
}

// Identifier returns the row id, or its 1-based position when the row has none.
func (r QueryRow) Identifier(index int) string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(index + 1)
}
