package convert

import (
	"github.com/lehigh-university-libraries/bookresolver/internal/models"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
)

// BuildImages returns one poster per cover id. Without cover ids it falls back
// to the olid cover of the edition, then of the work.
func BuildImages(record openlibrary.BookRecord, urls openlibrary.URLBuilder) []models.ExternalImage {
	var images []models.ExternalImage
	for _, id := range record.CoverIDs {
		images = append(images, poster(urls.CoverByID(id)))
	}
	if record.CoverID != nil {
		images = append(images, poster(urls.CoverByID(*record.CoverID)))
	}
	if images = DeduplicateImages(images); len(images) > 0 {
		return images
	}

	switch {
	case record.EditionID != nil:
		return []models.ExternalImage{poster(urls.CoverByOLID(*record.EditionID))}
	case record.WorkID != nil:
		return []models.ExternalImage{poster(urls.CoverByOLID(*record.WorkID))}
	}
	return nil
}

// DeduplicateImages keeps the first image for each URL, preserving order.
func DeduplicateImages(images []models.ExternalImage) []models.ExternalImage {
	if len(images) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(images))
	deduped := make([]models.ExternalImage, 0, len(images))
	for _, image := range images {
		if _, ok := seen[image.URL]; ok {
			continue
		}
		seen[image.URL] = struct{}{}
		deduped = append(deduped, image)
	}
	return deduped
}

func poster(url string) models.ExternalImage {
	return models.ExternalImage{Kind: models.ImageTypePoster, URL: url}
}
