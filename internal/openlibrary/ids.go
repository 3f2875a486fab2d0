package openlibrary

import (
	"strings"
)

// IDKind is the path namespace an OpenLibrary identifier lives under.
type IDKind string

const (
	KindBooks IDKind = "books"
	KindWorks IDKind = "works"
)

// UnknownSlug is returned by Slug and RelationKey when nothing usable remains.
const UnknownSlug = "unknown"

// NormalizeID reduces "/works/OL45804W", "works/OL45804W" or "OL45804W" to the bare id.
func NormalizeID(raw string, kind IDKind) (string, bool) {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", false
	}

	if !strings.Contains(trimmed, "/") {
		return trimmed, true
	}

	candidate, ok := strings.CutPrefix(trimmed, string(kind)+"/")
	if !ok {
		candidate = trimmed[strings.LastIndex(trimmed, "/")+1:]
	}
	candidate = strings.Trim(candidate, "/")
	if candidate == "" {
		return "", false
	}
	return candidate, true
}

// NormalizeISBN13 keeps only the digits and accepts the result if there are exactly 13.
func NormalizeISBN13(raw string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if isDigit(raw[i]) {
			b.WriteByte(raw[i])
		}
	}
	if b.Len() != 13 {
		return "", false
	}
	return b.String(), true
}

// NormalizeExactISBNQuery decides whether free text is nothing but an ISBN.
// Only hyphens and whitespace are removed, so titles that merely contain a
// 13-digit number are rejected.
func NormalizeExactISBNQuery(raw string) (string, bool) {
	compact := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, raw)

	switch len(compact) {
	case 13:
		if !allDigits(compact) {
			return "", false
		}
		return compact, true
	case 10:
		if !allDigits(compact[:9]) {
			return "", false
		}
		last := compact[9]
		switch {
		case isDigit(last):
			return compact, true
		case last == 'x' || last == 'X':
			return compact[:9] + "X", true
		}
	}
	return "", false
}

// FirstISBN13 returns the first value that normalizes to a 13-digit ISBN.
func FirstISBN13(values []string) (string, bool) {
	for _, v := range values {
		if isbn, ok := NormalizeISBN13(v); ok {
			return isbn, true
		}
	}
	return "", false
}

// ExtractYear finds the first run of four ASCII digits that reads as a year in [1000, 2999].
func ExtractYear(text string) (uint16, bool) {
	for i := 0; i+4 <= len(text); i++ {
		chunk := text[i : i+4]
		if !allDigits(chunk) {
			continue
		}
		v := int64(chunk[0]-'0')*1000 + int64(chunk[1]-'0')*100 + int64(chunk[2]-'0')*10 + int64(chunk[3]-'0')
		if year, ok := yearInRange(v); ok {
			return year, true
		}
	}
	return 0, false
}

// LanguageFromKey turns "/languages/eng" into "eng".
func LanguageFromKey(key string) (string, bool) {
	trimmed := strings.Trim(strings.TrimSpace(key), "/")
	last := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if last == "" {
		return "", false
	}
	return last, true
}

// Slug lower-cases ASCII letters and digits and joins everything else into single dashes.
func Slug(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingDash := false
	for _, r := range text {
		if r < 0x80 && isAlnum(byte(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteByte(toLower(byte(r)))
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return UnknownSlug
	}
	return b.String()
}

// RelationKey derives a stable key for a person or tag. A path-like value such
// as "/authors/OL26320A" reuses its last segment when that segment is already
// key-safe; anything else is slugified.
func RelationKey(text string) string {
	trimmed := strings.Trim(strings.TrimSpace(text), "/")
	if trimmed == "" {
		return UnknownSlug
	}

	candidate := strings.TrimSpace(trimmed[strings.LastIndex(trimmed, "/")+1:])
	if candidate != "" && isKeySafe(candidate) {
		return strings.ToLower(candidate)
	}
	return Slug(candidate)
}

func isKeySafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isAlnum(c) && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
