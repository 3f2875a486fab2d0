package openlibrary

import (
	"slices"
)

// MergeWorkWithEdition enriches a work record with its first edition.
//
// The work wins for narrative fields (title, description, authors, subjects);
// the edition wins for catalog and physical fields (edition id, ISBN, year,
// pages, language, publishers). Neither input is modified.
func MergeWorkWithEdition(work BookRecord, edition *BookRecord) BookRecord {
	if edition == nil {
		return work
	}

	coverIDs := slices.Clone(work.CoverIDs)
	for _, id := range edition.CoverIDs {
		if !slices.Contains(coverIDs, id) {
			coverIDs = append(coverIDs, id)
		}
	}
	if len(coverIDs) == 0 {
		if work.CoverID != nil {
			coverIDs = append(coverIDs, *work.CoverID)
		}
		if edition.CoverID != nil {
			coverIDs = append(coverIDs, *edition.CoverID)
		}
	}

	merged := BookRecord{
		Title:       work.Title,
		EditionID:   firstPresent(edition.EditionID, work.EditionID),
		WorkID:      firstPresent(work.WorkID, edition.WorkID),
		ISBN13:      firstPresent(edition.ISBN13, work.ISBN13),
		CoverIDs:    coverIDs,
		CoverID:     firstPresent(firstCoverID(coverIDs), edition.CoverID, work.CoverID),
		PublishYear: firstPresent(edition.PublishYear, work.PublishYear),
		Description: firstPresent(work.Description, edition.Description),
		Pages:       firstPresent(edition.Pages, work.Pages),
		Language:    firstPresent(edition.Language, work.Language),
		Publishers:  cloneStrings(firstNonEmpty(edition.Publishers, work.Publishers)),
	}
	if merged.Title == "" {
		merged.Title = edition.Title
	}
	if len(work.Authors) > 0 {
		merged.Authors = cloneStrings(work.Authors)
		merged.AuthorKeys = cloneStrings(work.AuthorKeys)
	} else {
		merged.Authors = cloneStrings(edition.Authors)
		merged.AuthorKeys = cloneStrings(edition.AuthorKeys)
	}
	merged.Subjects = cloneStrings(firstNonEmpty(work.Subjects, edition.Subjects))

	return merged
}

func firstPresent[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			c := *v
			return &c
		}
	}
	return nil
}

func firstNonEmpty(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}
