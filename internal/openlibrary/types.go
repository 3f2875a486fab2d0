package openlibrary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SearchResponse represents the search.json response
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchDoc is a single document from search.json
type SearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	EditionKey          []string `json:"edition_key"`
	ISBN                []string `json:"isbn"`
	CoverI              *int64   `json:"cover_i"`
	FirstPublishYear    *int64   `json:"first_publish_year"`
	Language            []string `json:"language"`
	AuthorName          []string `json:"author_name"`
	AuthorKey           []string `json:"author_key"`
	Subject             []string `json:"subject"`
	Publisher           []string `json:"publisher"`
	NumberOfPagesMedian *int64   `json:"number_of_pages_median"`
}

// KeyRef is a {"key": "/type/id"} reference to another OpenLibrary record
type KeyRef struct {
	Key string `json:"key"`
}

// EditionResponse represents /books/{id}.json and /isbn/{isbn}.json
type EditionResponse struct {
	Key           string       `json:"key"`
	Title         string       `json:"title"`
	Description   *Description `json:"description"`
	Works         []KeyRef     `json:"works"`
	ISBN13        []string     `json:"isbn_13"`
	Covers        []int64      `json:"covers"`
	NumberOfPages *int64       `json:"number_of_pages"`
	PublishDate   *string      `json:"publish_date"`
	Languages     []KeyRef     `json:"languages"`
	Publishers    []string     `json:"publishers"`
}

// WorkResponse represents /works/{id}.json
type WorkResponse struct {
	Key              string       `json:"key"`
	Title            string       `json:"title"`
	Description      *Description `json:"description"`
	Covers           []int64      `json:"covers"`
	Subjects         []string     `json:"subjects"`
	FirstPublishDate *string      `json:"first_publish_date"`
}

// WorkEditionsResponse represents /works/{id}/editions.json
type WorkEditionsResponse struct {
	Entries []EditionResponse `json:"entries"`
}

// DescriptionForm tells which JSON shape a Description was decoded from.
type DescriptionForm int

const (
	// DescriptionText is a bare JSON string.
	DescriptionText DescriptionForm = iota
	// DescriptionValue is an object of the form {"type": "/type/text", "value": "..."}.
	DescriptionValue
)

// Description is OpenLibrary's polymorphic description field. Upstream sends
// either a plain string or an object wrapping an optional value.
type Description struct {
	Form  DescriptionForm
	value *string
}

// Text returns the trimmed description, or false when it is missing or blank.
func (d *Description) Text() (string, bool) {
	if d == nil || d.value == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*d.value)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func (d *Description) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("failed to decode description text: %w", err)
		}
		*d = Description{Form: DescriptionText, value: &text}
		return nil
	}

	var obj struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to decode description object: %w", err)
	}
	*d = Description{Form: DescriptionValue, value: obj.Value}
	return nil
}
