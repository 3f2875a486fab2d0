package lookup

import (
	"strings"

	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
)

// IDs are identifiers as supplied by the caller, possibly unnormalized
// ("/books/OL7353617M", "978-0-14-032872-1").
type IDs struct {
	ISBN13    string `json:"isbn13,omitempty" yaml:"isbn13,omitempty"`
	EditionID string `json:"openlibrary_edition_id,omitempty" yaml:"openlibrary_edition_id,omitempty"`
	WorkID    string `json:"openlibrary_work_id,omitempty" yaml:"openlibrary_work_id,omitempty"`
}

// Query is a parsed lookup request
type Query struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	IDs  *IDs   `json:"ids,omitempty" yaml:"ids,omitempty"`
}

// normalizedIDs holds the identifiers that survived normalization.
type normalizedIDs struct {
	isbn13    string
	editionID string
	workID    string
}

func (q Query) normalizedIDs() normalizedIDs {
	var ids normalizedIDs
	if q.IDs == nil {
		return ids
	}
	if v, ok := openlibrary.NormalizeISBN13(q.IDs.ISBN13); ok {
		ids.isbn13 = v
	}
	if v, ok := openlibrary.NormalizeID(q.IDs.EditionID, openlibrary.KindBooks); ok {
		ids.editionID = v
	}
	if v, ok := openlibrary.NormalizeID(q.IDs.WorkID, openlibrary.KindWorks); ok {
		ids.workID = v
	}
	return ids
}

// Empty reports whether the query has neither a usable name nor any identifier.
func (q Query) Empty() bool {
	if strings.TrimSpace(q.Name) != "" {
		return false
	}
	ids := q.normalizedIDs()
	return ids.isbn13 == "" && ids.editionID == "" && ids.workID == ""
}

// String renders the query for logs and the lookup log.
func (q Query) String() string {
	var parts []string
	if name := strings.TrimSpace(q.Name); name != "" {
		parts = append(parts, "name="+name)
	}
	if q.IDs != nil {
		if q.IDs.ISBN13 != "" {
			parts = append(parts, "isbn13="+q.IDs.ISBN13)
		}
		if q.IDs.EditionID != "" {
			parts = append(parts, "edition="+q.IDs.EditionID)
		}
		if q.IDs.WorkID != "" {
			parts = append(parts, "work="+q.IDs.WorkID)
		}
	}
	return strings.Join(parts, " ")
}
