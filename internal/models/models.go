package models

import "time"

const (
	KindBook    = "book"
	KindAuthor  = "author"
	KindSubject = "subject"

	ImageTypePoster = "poster"

	EndpointLookup = "lookup"
	EndpointImages = "images"
)

// Book is the published metadata record for one resolved book
type Book struct {
	ID                   string  `json:"id" yaml:"id"`
	Name                 string  `json:"name" yaml:"name"`
	Kind                 string  `json:"kind" yaml:"kind"`
	Year                 *uint16 `json:"year,omitempty" yaml:"year,omitempty"`
	Overview             *string `json:"overview,omitempty" yaml:"overview,omitempty"`
	Pages                *uint32 `json:"pages,omitempty" yaml:"pages,omitempty"`
	Lang                 *string `json:"lang,omitempty" yaml:"lang,omitempty"`
	ISBN13               *string `json:"isbn13,omitempty" yaml:"isbn13,omitempty"`
	OpenLibraryEditionID *string `json:"openlibraryEditionId,omitempty" yaml:"openlibraryEditionId,omitempty"`
	OpenLibraryWorkID    *string `json:"openlibraryWorkId,omitempty" yaml:"openlibraryWorkId,omitempty"`
	Params               Params  `json:"params" yaml:"params"`
}

// ExternalImage is a cover image hosted by the catalog
type ExternalImage struct {
	Kind string `json:"kind" yaml:"kind"` // "poster"
	URL  string `json:"url" yaml:"url"`
}

// Person is a generated author entity derived from a book's author names
type Person struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Kind      string   `json:"kind" yaml:"kind"`
	Params    *Params  `json:"params,omitempty" yaml:"params,omitempty"`
	Generated bool     `json:"generated" yaml:"generated"`
	OtherIDs  []string `json:"otherids" yaml:"otherids"`
}

// Tag is a generated subject entity derived from a book's subjects
type Tag struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Kind      string   `json:"kind" yaml:"kind"`
	Path      string   `json:"path" yaml:"path"`
	Params    *Params  `json:"params,omitempty" yaml:"params,omitempty"`
	Generated bool     `json:"generated" yaml:"generated"`
	OtherIDs  []string `json:"otherids" yaml:"otherids"`
}

// Relations bundles the entities attached to a Book
type Relations struct {
	ExtImages     []ExternalImage `json:"extImages,omitempty" yaml:"extImages,omitempty"`
	PeopleDetails []Person        `json:"peopleDetails,omitempty" yaml:"peopleDetails,omitempty"`
	TagsDetails   []Tag           `json:"tagsDetails,omitempty" yaml:"tagsDetails,omitempty"`
}

// Empty reports whether the bundle has nothing worth attaching
func (r Relations) Empty() bool {
	return len(r.ExtImages) == 0 && len(r.PeopleDetails) == 0 && len(r.TagsDetails) == 0
}

// LookupResult is one entry of a lookup response. Depending on the output
// schema either Relations or Images is filled, never both.
type LookupResult struct {
	Metadata  Book            `json:"metadata" yaml:"metadata"`
	Relations *Relations      `json:"relations,omitempty" yaml:"relations,omitempty"`
	Images    []ExternalImage `json:"images,omitempty" yaml:"images,omitempty"`
}

// LookupEntry records one lookup served by this process. Endpoint tells
// record lookups from image lookups; image lookups carry no result ids.
type LookupEntry struct {
	ID          string    `json:"id"`
	Endpoint    string    `json:"endpoint"`
	Query       string    `json:"query"`
	Schema      string    `json:"schema"`
	ResultCount int       `json:"result_count"`
	ResultIDs   []string  `json:"result_ids,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
