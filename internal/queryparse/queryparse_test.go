package queryparse

import (
	"context"
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
	"github.com/lehigh-university-libraries/bookresolver/internal/providers"
)

type fakeProvider struct {
	reply  string
	err    error
	called bool
	config providers.Config
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	f.called = true
	f.config = config
	return f.reply, f.err
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected lookup.Query
	}{
		{
			name:     "plain title",
			text:     "  The Hobbit  ",
			expected: lookup.Query{Name: "The Hobbit"},
		},
		{
			name:     "isbn with label",
			text:     "The Hobbit ISBN: 978-0-14-032872-1",
			expected: lookup.Query{Name: "The Hobbit", IDs: &lookup.IDs{ISBN13: "9780140328721"}},
		},
		{
			name:     "isbn-10 converted",
			text:     "isbn:0140328726",
			expected: lookup.Query{IDs: &lookup.IDs{ISBN13: "9780140328721"}},
		},
		{
			name:     "openlibrary work url",
			text:     "https://openlibrary.org/works/OL45804W/The_Hobbit",
			expected: lookup.Query{IDs: &lookup.IDs{WorkID: "OL45804W"}},
		},
		{
			name:     "edition and work ids",
			text:     "ol7353617m /works/OL45804W",
			expected: lookup.Query{IDs: &lookup.IDs{EditionID: "OL7353617M", WorkID: "OL45804W"}},
		},
		{
			name:     "years are not isbns",
			text:     "Dune 1965",
			expected: lookup.Query{Name: "Dune 1965"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRules(tt.text)
			if got.Name != tt.expected.Name {
				t.Errorf("Expected name %q, got %q", tt.expected.Name, got.Name)
			}
			if (got.IDs == nil) != (tt.expected.IDs == nil) {
				t.Fatalf("Expected ids %+v, got %+v", tt.expected.IDs, got.IDs)
			}
			if got.IDs != nil && *got.IDs != *tt.expected.IDs {
				t.Errorf("Expected ids %+v, got %+v", *tt.expected.IDs, *got.IDs)
			}
		})
	}
}

func TestParseWithProvider(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n{\"title\": \"The Hobbit\", \"author\": \"Tolkien\", \"isbn\": \"\"}\n```"}
	p := New(provider, "test-model", 0)

	q := p.Parse(context.Background(), "that tolkien book about the hobbit")
	if q.Name != "The Hobbit Tolkien" || q.IDs != nil {
		t.Errorf("Unexpected query %+v", q)
	}
	if !provider.config.JSON || provider.config.Model != "test-model" {
		t.Errorf("Unexpected provider config %+v", provider.config)
	}
}

func TestParseSkipsProviderWhenRulesFindIDs(t *testing.T) {
	provider := &fakeProvider{}
	q := New(provider, "", 0).Parse(context.Background(), "9780140328721")

	if provider.called {
		t.Error("Expected the provider not to be called")
	}
	if q.IDs == nil || q.IDs.ISBN13 != "9780140328721" {
		t.Errorf("Unexpected query %+v", q)
	}
}

func TestParseFallsBackOnProviderError(t *testing.T) {
	tests := []*fakeProvider{
		{err: errors.New("connection refused")},
		{reply: "not json"},
		{reply: `{"title": "", "author": "", "isbn": ""}`},
	}

	for _, provider := range tests {
		q := New(provider, "", 0).Parse(context.Background(), "The Hobbit")
		if q.Name != "The Hobbit" || q.IDs != nil {
			t.Errorf("Expected rule based query, got %+v", q)
		}
	}
}

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"gemini", "openai", "Ollama"} {
		provider, err := NewProvider(name)
		if err != nil || provider == nil {
			t.Errorf("Expected provider for %s, got %v (%v)", name, provider, err)
		}
	}

	if provider, err := NewProvider(""); err != nil || provider != nil {
		t.Errorf("Expected no provider for an empty name, got %v (%v)", provider, err)
	}
	if _, err := NewProvider("claude"); err == nil {
		t.Error("Expected error for an unknown provider")
	}
}
