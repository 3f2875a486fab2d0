// Package convert maps canonical OpenLibrary book records into the published
// lookup schema.
package convert

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/bookresolver/internal/models"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
)

const (
	SchemaRelations = "relations"
	SchemaFlat      = "flat"

	isbn13Namespace  = "isbn13"
	workNamespace    = "olwid"
	editionNamespace = "oleid"
	titleFallback    = "openlibrary-title"

	personNamespace = "openlib-person"
	tagNamespace    = "openlib-tag"
)

// Mapper turns a record into a lookup result and its images
type Mapper interface {
	Map(record openlibrary.BookRecord) models.LookupResult
	Images(record openlibrary.BookRecord) []models.ExternalImage
}

// RelationsMapper attaches images, generated people and generated tags as relations.
type RelationsMapper struct {
	URLs openlibrary.URLBuilder
}

// FlatMapper returns images next to the metadata and keeps authors and
// subjects in the params bag only.
type FlatMapper struct {
	URLs openlibrary.URLBuilder
}

// ForSchema picks the mapper for a schema name; empty means relations.
func ForSchema(schema string, urls openlibrary.URLBuilder) (Mapper, error) {
	switch strings.ToLower(strings.TrimSpace(schema)) {
	case "", SchemaRelations:
		return RelationsMapper{URLs: urls}, nil
	case SchemaFlat:
		return FlatMapper{URLs: urls}, nil
	default:
		return nil, fmt.Errorf("unsupported schema: %s (supported: %s, %s)", schema, SchemaRelations, SchemaFlat)
	}
}

func (m RelationsMapper) Map(record openlibrary.BookRecord) models.LookupResult {
	relations := models.Relations{
		ExtImages:     BuildImages(record, m.URLs),
		PeopleDetails: BuildPeople(record),
		TagsDetails:   BuildTags(record),
	}

	result := models.LookupResult{Metadata: BuildBook(record)}
	if !relations.Empty() {
		result.Relations = &relations
	}
	return result
}

func (m RelationsMapper) Images(record openlibrary.BookRecord) []models.ExternalImage {
	return BuildImages(record, m.URLs)
}

func (m FlatMapper) Map(record openlibrary.BookRecord) models.LookupResult {
	return models.LookupResult{
		Metadata: BuildBook(record),
		Images:   BuildImages(record, m.URLs),
	}
}

func (m FlatMapper) Images(record openlibrary.BookRecord) []models.ExternalImage {
	return BuildImages(record, m.URLs)
}

// BuildBook assembles the metadata record shared by both schemas.
func BuildBook(record openlibrary.BookRecord) models.Book {
	return models.Book{
		ID:                   CanonicalID(record),
		Name:                 record.Title,
		Kind:                 models.KindBook,
		Year:                 record.PublishYear,
		Overview:             record.Description,
		Pages:                record.Pages,
		Lang:                 record.Language,
		ISBN13:               record.ISBN13,
		OpenLibraryEditionID: record.EditionID,
		OpenLibraryWorkID:    record.WorkID,
		Params:               BuildParams(record),
	}
}

// CanonicalID prefers the ISBN, then the work, then the edition. Records with
// none of them get a deterministic id derived from the title.
func CanonicalID(record openlibrary.BookRecord) string {
	switch {
	case record.ISBN13 != nil:
		return isbn13Namespace + ":" + *record.ISBN13
	case record.WorkID != nil:
		return workNamespace + ":" + *record.WorkID
	case record.EditionID != nil:
		return editionNamespace + ":" + *record.EditionID
	}

	slug := openlibrary.Slug(record.Title)
	if slug == openlibrary.UnknownSlug {
		return titleFallback
	}
	return titleFallback + "-" + slug
}

// BuildParams collects catalog specific fields under their fixed keys.
func BuildParams(record openlibrary.BookRecord) models.Params {
	var params models.Params
	if len(record.Authors) > 0 {
		params.SetStrings(models.ParamAuthors, record.Authors)
	}
	if len(record.Subjects) > 0 {
		params.SetStrings(models.ParamSubjects, record.Subjects)
	}
	if len(record.Publishers) > 0 {
		params.SetStrings(models.ParamPublishers, record.Publishers)
	}
	if record.EditionID != nil {
		params.SetString(models.ParamOpenLibraryEditionID, *record.EditionID)
	}
	if record.WorkID != nil {
		params.SetString(models.ParamOpenLibraryWorkID, *record.WorkID)
	}
	return params
}
