// Package lookup decides how a query is resolved against OpenLibrary and
// assembles the deduplicated candidate records.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bookresolver/internal/convert"
	"github.com/lehigh-university-libraries/bookresolver/internal/models"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
)

// ErrNotSupported is returned for queries with neither an identifier nor a name.
var ErrNotSupported = errors.New("not supported")

// Fetcher retrieves and decodes one JSON document
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, target any) error
}

// Resolver turns queries into OpenLibrary book records
type Resolver struct {
	fetcher Fetcher
	urls    openlibrary.URLBuilder
}

func NewResolver(fetcher Fetcher, urls openlibrary.URLBuilder) *Resolver {
	return &Resolver{fetcher: fetcher, urls: urls}
}

// URLs returns the builder used for API and cover URLs
func (r *Resolver) URLs() openlibrary.URLBuilder {
	return r.urls
}

// Resolve picks the first applicable strategy: ISBN, edition, work, then the
// free-text name. Identifiers that fail normalization are ignored.
func (r *Resolver) Resolve(ctx context.Context, q Query) ([]openlibrary.BookRecord, error) {
	ids := q.normalizedIDs()

	var (
		records []openlibrary.BookRecord
		err     error
	)
	switch {
	case ids.isbn13 != "":
		slog.Debug("Resolving by ISBN", "isbn13", ids.isbn13)
		records, err = r.byEdition(ctx, r.urls.ISBN(ids.isbn13))
	case ids.editionID != "":
		slog.Debug("Resolving by edition", "edition", ids.editionID)
		records, err = r.byEdition(ctx, r.urls.Edition(ids.editionID))
	case ids.workID != "":
		slog.Debug("Resolving by work", "work", ids.workID)
		records, err = r.byWork(ctx, ids.workID)
	default:
		name := strings.TrimSpace(q.Name)
		if name == "" {
			return nil, ErrNotSupported
		}
		if isbn, ok := openlibrary.NormalizeExactISBNQuery(name); ok {
			slog.Debug("Resolving name as ISBN", "name", name, "isbn", isbn)
			records, err = r.byEdition(ctx, r.urls.ISBN(isbn))
		} else {
			slog.Debug("Resolving by search", "name", name)
			records, err = r.bySearch(ctx, name)
		}
	}
	if err != nil {
		return nil, err
	}

	deduped := openlibrary.DeduplicateRecords(records)
	slog.Debug("Resolved records", "query", q.String(), "found", len(records), "unique", len(deduped))
	return deduped, nil
}

// ResolveImages flattens the images of every resolved record.
func (r *Resolver) ResolveImages(ctx context.Context, q Query, mapper convert.Mapper) ([]models.ExternalImage, error) {
	records, err := r.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	var images []models.ExternalImage
	for _, record := range records {
		images = append(images, mapper.Images(record)...)
	}
	return convert.DeduplicateImages(images), nil
}

func (r *Resolver) byEdition(ctx context.Context, url string) ([]openlibrary.BookRecord, error) {
	var edition openlibrary.EditionResponse
	if err := r.fetch(ctx, url, &edition); err != nil {
		return nil, err
	}
	return []openlibrary.BookRecord{openlibrary.RecordFromEdition(edition)}, nil
}

func (r *Resolver) byWork(ctx context.Context, workID string) ([]openlibrary.BookRecord, error) {
	var work openlibrary.WorkResponse
	if err := r.fetch(ctx, r.urls.Work(workID), &work); err != nil {
		return nil, err
	}

	var editions openlibrary.WorkEditionsResponse
	if err := r.fetch(ctx, r.urls.WorkEditions(workID), &editions); err != nil {
		return nil, err
	}

	var first *openlibrary.BookRecord
	if edition, ok := openlibrary.FirstRecordFromEditions(editions); ok {
		first = &edition
	}
	return []openlibrary.BookRecord{openlibrary.MergeWorkWithEdition(openlibrary.RecordFromWork(work), first)}, nil
}

func (r *Resolver) bySearch(ctx context.Context, name string) ([]openlibrary.BookRecord, error) {
	var resp openlibrary.SearchResponse
	if err := r.fetch(ctx, r.urls.Search(name), &resp); err != nil {
		return nil, err
	}

	records := make([]openlibrary.BookRecord, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		if record, ok := openlibrary.RecordFromSearchDoc(doc); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *Resolver) fetch(ctx context.Context, url string, target any) error {
	if err := r.fetcher.FetchJSON(ctx, url, target); err != nil {
		return fmt.Errorf("failed to resolve %s: %w", url, err)
	}
	return nil
}
