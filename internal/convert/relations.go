package convert

import (
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/bookresolver/internal/models"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
)

// BuildPeople generates one author entity per non-blank author name. When an
// author key is present at the same index it is appended to the slug so that
// namesakes stay distinct.
func BuildPeople(record openlibrary.BookRecord) []models.Person {
	var people []models.Person
	var seen []string

	for i, raw := range record.Authors {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		key := openlibrary.Slug(name)
		authorKey := ""
		if i < len(record.AuthorKeys) {
			if k := strings.TrimSpace(record.AuthorKeys[i]); k != "" {
				authorKey = openlibrary.RelationKey(k)
				key += "-" + authorKey
			}
		}

		id := personNamespace + ":" + key
		if slices.Contains(seen, id) {
			continue
		}
		seen = append(seen, id)

		person := models.Person{
			ID:        id,
			Name:      name,
			Kind:      models.KindAuthor,
			Generated: true,
			OtherIDs:  []string{id},
		}
		if authorKey != "" {
			params := &models.Params{}
			params.SetString(models.ParamOpenLibraryAuthorID, authorKey)
			person.Params = params
		}
		people = append(people, person)
	}

	return people
}

// BuildTags generates one subject entity per non-blank subject.
func BuildTags(record openlibrary.BookRecord) []models.Tag {
	var tags []models.Tag
	var seen []string

	for _, raw := range record.Subjects {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		key := openlibrary.RelationKey(name)
		id := tagNamespace + ":" + key
		if slices.Contains(seen, id) {
			continue
		}
		seen = append(seen, id)

		params := &models.Params{}
		params.SetString(models.ParamOpenLibraryTagKey, key)
		tags = append(tags, models.Tag{
			ID:        id,
			Name:      name,
			Kind:      models.KindSubject,
			Path:      "/",
			Params:    params,
			Generated: true,
			OtherIDs:  []string{id},
		})
	}

	return tags
}
