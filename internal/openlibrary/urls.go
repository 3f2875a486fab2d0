package openlibrary

import (
	"fmt"
	"strings"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultCoversURL = "https://covers.openlibrary.org"

	// SearchLimit is the single page size requested from search.json.
	SearchLimit = 25
)

// URLBuilder builds OpenLibrary API and Covers API URLs
type URLBuilder struct {
	BaseURL   string
	CoversURL string
}

// NewURLBuilder returns a builder for the given hosts, falling back to the public ones
func NewURLBuilder(baseURL, coversURL string) URLBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if coversURL == "" {
		coversURL = DefaultCoversURL
	}
	return URLBuilder{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		CoversURL: strings.TrimRight(coversURL, "/"),
	}
}

func (u URLBuilder) ISBN(isbn string) string {
	return fmt.Sprintf("%s/isbn/%s.json", u.BaseURL, isbn)
}

func (u URLBuilder) Edition(editionID string) string {
	return fmt.Sprintf("%s/books/%s.json", u.BaseURL, editionID)
}

func (u URLBuilder) Work(workID string) string {
	return fmt.Sprintf("%s/works/%s.json", u.BaseURL, workID)
}

func (u URLBuilder) WorkEditions(workID string) string {
	return fmt.Sprintf("%s/works/%s/editions.json?limit=1", u.BaseURL, workID)
}

func (u URLBuilder) Search(query string) string {
	return fmt.Sprintf("%s/search.json?q=%s&limit=%d", u.BaseURL, EncodeQueryComponent(query), SearchLimit)
}

// CoverByID uses the Covers API numeric id template
func (u URLBuilder) CoverByID(coverID uint64) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", u.CoversURL, coverID)
}

// CoverByOLID uses the Covers API edition/work id template
func (u URLBuilder) CoverByOLID(olid string) string {
	return fmt.Sprintf("%s/b/olid/%s-L.jpg", u.CoversURL, olid)
}

// EncodeQueryComponent percent-encodes everything except ASCII letters, digits
// and -_.~ and writes spaces as %20 rather than url.QueryEscape's "+".
func EncodeQueryComponent(value string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case isAlnum(c), c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		}
	}
	return b.String()
}
