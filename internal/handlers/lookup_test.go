package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
	"github.com/lehigh-university-libraries/bookresolver/internal/models"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
	"github.com/lehigh-university-libraries/bookresolver/internal/storage"
)

const editionJSON = `{
	"key": "/books/OL7353617M",
	"title": "The Hobbit",
	"works": [{"key": "/works/OL45804W"}],
	"isbn_13": ["9780140328721"],
	"covers": [12345, 67890]
}`

const searchJSON = `{"docs": [
	{"key": "/works/OL45804W", "title": "The Hobbit", "author_name": ["J.R.R. Tolkien"], "author_key": ["OL26320A"], "subject": ["Fantasy"], "cover_i": 12345},
	{"key": "/works/OL27479W", "title": "The Hobbit: Graphic Novel", "cover_i": 12345}
]}`

// newTestHandler serves a fake OpenLibrary and returns a handler pointed at it.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/isbn/9780140328721.json":
			_, _ = w.Write([]byte(editionJSON))
		case r.URL.Path == "/search.json":
			_, _ = w.Write([]byte(searchJSON))
		case r.URL.Path == "/works/OL500W.json":
			http.Error(w, "upstream down", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	client := openlibrary.NewClient(5*time.Second, "")
	urls := openlibrary.NewURLBuilder(upstream.URL, "http://covers.test")
	return New(lookup.NewResolver(client, urls), nil, "relations", 0)
}

func TestHandleLookupByISBN(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/lookup?isbn13=978-0-14-032872-1", nil)
	rec := httptest.NewRecorder()
	h.HandleLookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var results []models.LookupResult
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Metadata.ID != "isbn13:9780140328721" {
		t.Errorf("Expected isbn13:9780140328721, got %s", results[0].Metadata.ID)
	}
	if results[0].Relations == nil || len(results[0].Relations.ExtImages) != 2 {
		t.Errorf("Expected 2 images in relations, got %+v", results[0].Relations)
	}
	if results[0].Relations.ExtImages[0].URL != "http://covers.test/b/id/12345-L.jpg" {
		t.Errorf("Unexpected image URL %s", results[0].Relations.ExtImages[0].URL)
	}
}

func TestHandleLookupPostFlatSchema(t *testing.T) {
	h := newTestHandler(t)

	body := strings.NewReader(`{"name": "The Hobbit", "schema": "flat"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/lookup", body)
	rec := httptest.NewRecorder()
	h.HandleLookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var results []models.LookupResult
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Relations != nil || len(results[0].Images) != 1 {
		t.Errorf("Expected flat images only, got %+v", results[0])
	}
	if authors, _ := results[0].Metadata.Params.Strings(models.ParamAuthors); len(authors) != 1 {
		t.Errorf("Expected authors param, got %v", authors)
	}

	entries := h.store.List()
	if len(entries) != 1 || entries[0].ResultCount != 2 || entries[0].Schema != "flat" {
		t.Errorf("Unexpected lookup log %+v", entries)
	}
}

func TestHandleLookupText(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/lookup?text=ISBN%20978-0-14-032872-1", nil)
	rec := httptest.NewRecorder()
	h.HandleLookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"isbn13:9780140328721"`) {
		t.Errorf("Expected ISBN result, got %s", rec.Body.String())
	}
}

func TestHandleLookupErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		code   int
	}{
		{name: "empty query", method: http.MethodGet, target: "/api/lookup", code: http.StatusNotFound},
		{name: "upstream status", method: http.MethodGet, target: "/api/lookup?work=OL500W", code: http.StatusBadGateway},
		{name: "upstream not found", method: http.MethodGet, target: "/api/lookup?edition=OL1M", code: http.StatusNotFound},
		{name: "bad schema", method: http.MethodGet, target: "/api/lookup?name=Dune&schema=marc", code: http.StatusBadRequest},
		{name: "bad json", method: http.MethodPost, target: "/api/lookup", body: "{", code: http.StatusBadRequest},
		{name: "bad method", method: http.MethodDelete, target: "/api/lookup", code: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleLookup(rec, req)

			if rec.Code != tt.code {
				t.Errorf("Expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleLookupNotSupportedBody(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.HandleLookup(rec, httptest.NewRequest(http.MethodPost, "/api/lookup", strings.NewReader(`{"ids": {}}`)))

	if rec.Code != http.StatusNotFound || strings.TrimSpace(rec.Body.String()) != "Not supported" {
		t.Errorf("Expected 404 Not supported, got %d: %s", rec.Code, rec.Body.String())
	}
	if entries := h.store.List(); len(entries) != 1 || entries[0].Error == "" {
		t.Errorf("Expected the failed lookup to be logged, got %+v", entries)
	}
}

func TestHandleLookupImages(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/lookup/images?name=The%20Hobbit", nil)
	rec := httptest.NewRecorder()
	h.HandleLookupImages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var images []models.ExternalImage
	if err := json.NewDecoder(rec.Body).Decode(&images); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	// Both search results share cover 12345.
	if len(images) != 1 || images[0].URL != "http://covers.test/b/id/12345-L.jpg" {
		t.Errorf("Expected one shared cover, got %+v", images)
	}

	entries := h.store.List()
	if len(entries) != 1 {
		t.Fatalf("Expected the image lookup to be logged, got %d entries", len(entries))
	}
	if entries[0].Endpoint != models.EndpointImages || entries[0].ResultCount != 1 || entries[0].Schema != "relations" {
		t.Errorf("Unexpected entry %+v", entries[0])
	}
}

func TestHandleLookupsLogIsCapped(t *testing.T) {
	h := newTestHandler(t)
	h.store = storage.New(2)

	for i := 0; i < 5; i++ {
		h.HandleLookup(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lookup?isbn13=9780140328721", nil))
	}
	h.HandleLookupImages(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lookup/images?name=The%20Hobbit", nil))

	entries := h.store.List()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	endpoints := map[string]bool{}
	for _, e := range entries {
		endpoints[e.Endpoint] = true
	}
	if !endpoints[models.EndpointImages] || !endpoints[models.EndpointLookup] {
		t.Errorf("Expected the newest lookup and image entries, got %+v", entries)
	}
}

func TestHandleLookupsLog(t *testing.T) {
	h := newTestHandler(t)
	h.HandleLookup(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lookup?isbn13=9780140328721", nil))

	rec := httptest.NewRecorder()
	h.HandleLookups(rec, httptest.NewRequest(http.MethodGet, "/api/lookups", nil))

	var entries []models.LookupEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Endpoint != models.EndpointLookup || entries[0].ResultIDs[0] != "isbn13:9780140328721" {
		t.Errorf("Unexpected entry %+v", entries[0])
	}

	rec = httptest.NewRecorder()
	h.HandleLookupDetail(rec, httptest.NewRequest(http.MethodGet, "/api/lookups/"+entries[0].ID, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), entries[0].ID) {
		t.Errorf("Expected entry detail, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.HandleLookupDetail(rec, httptest.NewRequest(http.MethodGet, "/api/lookups/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
