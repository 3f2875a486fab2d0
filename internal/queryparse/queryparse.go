// Package queryparse turns free text typed by a user into a lookup query.
//
// Identifiers embedded in the text (ISBNs, OpenLibrary edition and work ids
// or URLs) are found by rules. When an LLM provider is configured and the
// rules find no identifier, the provider is asked to split the text into a
// title, an author and an ISBN.
package queryparse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/bookresolver/internal/gemini"
	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
	"github.com/lehigh-university-libraries/bookresolver/internal/ollama"
	"github.com/lehigh-university-libraries/bookresolver/internal/openai"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
	"github.com/lehigh-university-libraries/bookresolver/internal/providers"
)

var olidPattern = regexp.MustCompile(`(?i)(?:^|/)(OL\d+)([MW])(?:$|[/?#.])`)

const prompt = `Extract the book being looked up from the text below.
Reply with a JSON object with the keys "title", "author" and "isbn".
Use an empty string for anything the text does not mention. Do not guess an ISBN.

Text: %s`

// Parser converts free text into a lookup.Query
type Parser struct {
	provider    providers.Provider
	model       string
	temperature float64
}

// New returns a parser. A nil provider keeps parsing purely rule based.
func New(provider providers.Provider, model string, temperature float64) *Parser {
	return &Parser{provider: provider, model: model, temperature: temperature}
}

// NewProvider returns the provider registered under name.
// An empty name or "none" returns nil.
func NewProvider(name string) (providers.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "gemini":
		return gemini.New(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, fmt.Errorf("unknown query parser provider: %s (supported: gemini, openai, ollama)", name)
	}
}

// Parse never fails: provider errors are logged and the rule based result is returned.
func (p *Parser) Parse(ctx context.Context, text string) lookup.Query {
	q := ParseRules(text)
	if p == nil || p.provider == nil || q.IDs != nil || strings.TrimSpace(q.Name) == "" {
		return q
	}

	parsed, err := p.parseWithProvider(ctx, text)
	if err != nil {
		slog.Warn("Falling back to rule based query parsing", "provider", p.provider.Name(), "err", err)
		return q
	}
	return parsed
}

type extraction struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

func (p *Parser) parseWithProvider(ctx context.Context, text string) (lookup.Query, error) {
	reply, err := p.provider.ExtractText(ctx, providers.Config{
		Model:       p.model,
		Temperature: p.temperature,
		Prompt:      fmt.Sprintf(prompt, text),
		JSON:        true,
	})
	if err != nil {
		return lookup.Query{}, fmt.Errorf("failed to extract query: %w", err)
	}

	var e extraction
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &e); err != nil {
		return lookup.Query{}, fmt.Errorf("failed to decode extraction %q: %w", reply, err)
	}

	var q lookup.Query
	if isbn, ok := toISBN13(e.ISBN); ok {
		q.IDs = &lookup.IDs{ISBN13: isbn}
	}
	q.Name = strings.TrimSpace(strings.TrimSpace(e.Title) + " " + strings.TrimSpace(e.Author))
	if q.Name == "" && q.IDs == nil {
		return lookup.Query{}, fmt.Errorf("provider found no title or isbn")
	}

	slog.Debug("Parsed query with provider", "provider", p.provider.Name(), "query", q.String())
	return q, nil
}

// ParseRules pulls the first ISBN, edition id and work id out of text and
// keeps the remaining words as the name.
func ParseRules(text string) lookup.Query {
	var (
		ids  lookup.IDs
		name []string
	)
	for _, field := range strings.Fields(text) {
		token := strings.Trim(field, `,;"'()[]`)
		if strings.EqualFold(token, "isbn") || strings.EqualFold(token, "isbn:") {
			continue
		}
		if len(token) > 5 && strings.EqualFold(token[:5], "isbn:") {
			token = token[5:]
		}

		if isbn, ok := toISBN13(token); ok {
			if ids.ISBN13 == "" {
				ids.ISBN13 = isbn
			}
			continue
		}
		if m := olidPattern.FindStringSubmatch(token); m != nil {
			id := strings.ToUpper(m[1] + m[2])
			switch {
			case strings.HasSuffix(id, "M") && ids.EditionID == "":
				ids.EditionID = id
			case strings.HasSuffix(id, "W") && ids.WorkID == "":
				ids.WorkID = id
			}
			continue
		}
		name = append(name, field)
	}

	q := lookup.Query{Name: strings.Join(name, " ")}
	if ids != (lookup.IDs{}) {
		q.IDs = &ids
	}
	return q
}

// toISBN13 accepts an exact ISBN-13 or ISBN-10 token and returns the ISBN-13 form.
func toISBN13(token string) (string, bool) {
	isbn, ok := openlibrary.NormalizeExactISBNQuery(token)
	if !ok {
		return "", false
	}
	if len(isbn) == 13 {
		return isbn, true
	}
	return isbn10To13(isbn), true
}

func isbn10To13(isbn10 string) string {
	body := "978" + isbn10[:9]
	sum := 0
	for i := 0; i < len(body); i++ {
		d := int(body[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return body + string(rune('0'+(10-sum%10)%10))
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
