package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/bookresolver/internal/convert"
	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
	"github.com/lehigh-university-libraries/bookresolver/internal/models"
)

type lookupRequest struct {
	Name   string      `json:"name"`
	Text   string      `json:"text"`
	IDs    *lookup.IDs `json:"ids"`
	Schema string      `json:"schema"`
}

// HandleLookup resolves a query and returns the mapped results
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLookupRequest(w, r)
	if !ok {
		return
	}

	mapper, schema, ok := h.mapperFor(w, req.Schema)
	if !ok {
		return
	}

	q := h.queryFrom(r, req)
	entry := models.LookupEntry{Endpoint: models.EndpointLookup, Query: q.String(), Schema: schema}

	records, err := h.resolver.Resolve(r.Context(), q)
	if err != nil {
		entry.Error = err.Error()
		h.store.Add(entry)
		h.writeLookupError(w, err)
		return
	}

	results := make([]models.LookupResult, 0, len(records))
	for _, record := range records {
		result := mapper.Map(record)
		entry.ResultIDs = append(entry.ResultIDs, result.Metadata.ID)
		results = append(results, result)
	}
	entry.ResultCount = len(results)
	h.store.Add(entry)

	h.writeJSON(w, results)
}

// HandleLookupImages resolves a query and returns the cover images of every result
func (h *Handler) HandleLookupImages(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLookupRequest(w, r)
	if !ok {
		return
	}

	mapper, schema, ok := h.mapperFor(w, req.Schema)
	if !ok {
		return
	}

	q := h.queryFrom(r, req)
	entry := models.LookupEntry{Endpoint: models.EndpointImages, Query: q.String(), Schema: schema}

	images, err := h.resolver.ResolveImages(r.Context(), q, mapper)
	if err != nil {
		entry.Error = err.Error()
		h.store.Add(entry)
		h.writeLookupError(w, err)
		return
	}
	if images == nil {
		images = []models.ExternalImage{}
	}
	entry.ResultCount = len(images)
	h.store.Add(entry)

	h.writeJSON(w, images)
}

// decodeLookupRequest reads a JSON body for POST and query parameters for GET.
func (h *Handler) decodeLookupRequest(w http.ResponseWriter, r *http.Request) (lookupRequest, bool) {
	var req lookupRequest
	switch r.Method {
	case http.MethodGet:
		params := r.URL.Query()
		req.Name = params.Get("name")
		req.Text = params.Get("text")
		req.Schema = params.Get("schema")
		ids := lookup.IDs{
			ISBN13:    params.Get("isbn13"),
			EditionID: params.Get("edition"),
			WorkID:    params.Get("work"),
		}
		if ids != (lookup.IDs{}) {
			req.IDs = &ids
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return req, false
		}
		if schema := r.URL.Query().Get("schema"); schema != "" {
			req.Schema = schema
		}
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}
	return req, true
}

func (h *Handler) mapperFor(w http.ResponseWriter, schema string) (convert.Mapper, string, bool) {
	if strings.TrimSpace(schema) == "" {
		schema = h.schema
	}
	mapper, err := convert.ForSchema(schema, h.resolver.URLs())
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	return mapper, schema, true
}

// queryFrom prefers explicit name and ids; free text is parsed only when
// neither was given.
func (h *Handler) queryFrom(r *http.Request, req lookupRequest) lookup.Query {
	q := lookup.Query{Name: req.Name, IDs: req.IDs}
	if q.Empty() && strings.TrimSpace(req.Text) != "" {
		return h.parser.Parse(r.Context(), req.Text)
	}
	return q
}
