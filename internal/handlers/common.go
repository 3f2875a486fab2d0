package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
	"github.com/lehigh-university-libraries/bookresolver/internal/queryparse"
	"github.com/lehigh-university-libraries/bookresolver/internal/storage"
)

type Handler struct {
	resolver *lookup.Resolver
	parser   *queryparse.Parser
	store    *storage.LookupStore
	schema   string
}

// New wires the handlers. parser may be nil, in which case free text is
// parsed by rules only. logSize caps the lookup log; 0 uses storage.DefaultLimit.
func New(resolver *lookup.Resolver, parser *queryparse.Parser, schema string, logSize int) *Handler {
	return &Handler{
		resolver: resolver,
		parser:   parser,
		store:    storage.New(logSize),
		schema:   schema,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// writeLookupError maps resolver errors onto HTTP statuses: unsupported
// queries are 404, upstream HTTP failures keep their status, anything else is 500.
func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	var httpErr *openlibrary.HTTPError
	switch {
	case errors.Is(err, lookup.ErrNotSupported):
		h.writeError(w, "Not supported", http.StatusNotFound)
	case errors.As(err, &httpErr):
		slog.Error("OpenLibrary lookup failed", "url", httpErr.URL, "status", httpErr.StatusCode)
		http.Error(w, http.StatusText(httpErr.StatusCode), httpErr.StatusCode)
	default:
		slog.Error("Lookup failed", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
