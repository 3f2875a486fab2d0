package openlibrary

import (
	"strings"
)

// BookRecord is the source-agnostic book built from any of the three OpenLibrary
// response shapes. Nil pointers mean the value is absent.
type BookRecord struct {
	Title       string
	EditionID   *string
	WorkID      *string
	ISBN13      *string
	CoverIDs    []uint64
	CoverID     *uint64
	PublishYear *uint16
	Description *string
	Pages       *uint32
	Language    *string
	Authors     []string
	// AuthorKeys lines up with Authors by index when upstream provides it.
	AuthorKeys []string
	Subjects   []string
	Publishers []string
}

// DedupKey identifies a record for duplicate removal: work, then edition,
// then ISBN, then the lower-cased title.
func (r BookRecord) DedupKey() string {
	switch {
	case r.WorkID != nil:
		return "work:" + *r.WorkID
	case r.EditionID != nil:
		return "edition:" + *r.EditionID
	case r.ISBN13 != nil:
		return "isbn13:" + *r.ISBN13
	}
	return "title:" + asciiLower(r.Title)
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func ptr[T any](v T) *T { return &v }

func optional[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
