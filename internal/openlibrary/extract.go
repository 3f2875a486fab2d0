package openlibrary

import (
	"math"
	"slices"
	"strings"
)

// RecordFromSearchDoc maps a search.json document. Documents without a title are skipped.
func RecordFromSearchDoc(doc SearchDoc) (BookRecord, bool) {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		return BookRecord{}, false
	}

	record := BookRecord{
		Title:       title,
		WorkID:      optional(NormalizeID(doc.Key, KindWorks)),
		ISBN13:      optional(FirstISBN13(doc.ISBN)),
		Authors:     cloneStrings(doc.AuthorName),
		AuthorKeys:  cloneStrings(doc.AuthorKey),
		Subjects:    cloneStrings(doc.Subject),
		Publishers:  cloneStrings(doc.Publisher),
	}

	if len(doc.EditionKey) > 0 {
		record.EditionID = optional(NormalizeID(doc.EditionKey[0], KindBooks))
	}
	if doc.CoverI != nil {
		if id, ok := positiveCoverID(*doc.CoverI); ok {
			record.CoverIDs = []uint64{id}
			record.CoverID = ptr(id)
		}
	}
	if doc.FirstPublishYear != nil {
		record.PublishYear = optional(yearInRange(*doc.FirstPublishYear))
	}
	if doc.NumberOfPagesMedian != nil {
		record.Pages = optional(positiveUint32(*doc.NumberOfPagesMedian))
	}
	if len(doc.Language) > 0 {
		record.Language = ptr(doc.Language[0])
	}

	return record, true
}

// RecordFromEdition maps an edition response. Editions carry no authors or subjects.
func RecordFromEdition(resp EditionResponse) BookRecord {
	coverIDs := extractCoverIDs(resp.Covers)

	record := BookRecord{
		Title:       strings.TrimSpace(resp.Title),
		EditionID:   optional(NormalizeID(resp.Key, KindBooks)),
		ISBN13:      optional(FirstISBN13(resp.ISBN13)),
		CoverIDs:    coverIDs,
		CoverID:     firstCoverID(coverIDs),
		Description: descriptionText(resp.Description),
		Publishers:  cloneStrings(resp.Publishers),
	}

	if len(resp.Works) > 0 {
		record.WorkID = optional(NormalizeID(resp.Works[0].Key, KindWorks))
	}
	if resp.PublishDate != nil {
		record.PublishYear = optional(ExtractYear(*resp.PublishDate))
	}
	if resp.NumberOfPages != nil {
		record.Pages = optional(positiveUint32(*resp.NumberOfPages))
	}
	if len(resp.Languages) > 0 {
		record.Language = optional(LanguageFromKey(resp.Languages[0].Key))
	}

	return record
}

// RecordFromWork maps a work response. Works carry no ISBN, edition, pages or language.
func RecordFromWork(resp WorkResponse) BookRecord {
	coverIDs := extractCoverIDs(resp.Covers)

	record := BookRecord{
		Title:       strings.TrimSpace(resp.Title),
		WorkID:      optional(NormalizeID(resp.Key, KindWorks)),
		CoverIDs:    coverIDs,
		CoverID:     firstCoverID(coverIDs),
		Description: descriptionText(resp.Description),
		Subjects:    cloneStrings(resp.Subjects),
	}

	if resp.FirstPublishDate != nil {
		record.PublishYear = optional(ExtractYear(*resp.FirstPublishDate))
	}

	return record
}

// FirstRecordFromEditions maps the first entry of a work's editions listing.
func FirstRecordFromEditions(resp WorkEditionsResponse) (BookRecord, bool) {
	if len(resp.Entries) == 0 {
		return BookRecord{}, false
	}
	return RecordFromEdition(resp.Entries[0]), true
}

func descriptionText(d *Description) *string {
	return optional(d.Text())
}

func positiveCoverID(v int64) (uint64, bool) {
	if v <= 0 {
		return 0, false
	}
	return uint64(v), true
}

func positiveUint32(v int64) (uint32, bool) {
	if v <= 0 || v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

func yearInRange(v int64) (uint16, bool) {
	if v < 1000 || v > 2999 {
		return 0, false
	}
	return uint16(v), true
}

func extractCoverIDs(values []int64) []uint64 {
	var ids []uint64
	for _, v := range values {
		id, ok := positiveCoverID(v)
		if !ok || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func firstCoverID(ids []uint64) *uint64 {
	if len(ids) == 0 {
		return nil
	}
	return ptr(ids[0])
}
