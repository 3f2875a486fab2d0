package openlibrary

import (
	"reflect"
	"testing"
)

func TestDedupKey(t *testing.T) {
	tests := []struct {
		name     string
		record   BookRecord
		expected string
	}{
		{
			name:     "work id wins",
			record:   BookRecord{Title: "The Hobbit", WorkID: ptr("OL45804W"), EditionID: ptr("OL7353617M"), ISBN13: ptr("9780140328721")},
			expected: "work:OL45804W",
		},
		{
			name:     "edition id next",
			record:   BookRecord{Title: "The Hobbit", EditionID: ptr("OL7353617M"), ISBN13: ptr("9780140328721")},
			expected: "edition:OL7353617M",
		},
		{
			name:     "isbn next",
			record:   BookRecord{Title: "The Hobbit", ISBN13: ptr("9780140328721")},
			expected: "isbn13:9780140328721",
		},
		{
			name:     "lower-cased title last",
			record:   BookRecord{Title: "The HOBBIT"},
			expected: "title:the hobbit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.DedupKey(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDeduplicateRecords(t *testing.T) {
	records := []BookRecord{
		{Title: "A", WorkID: ptr("OL1W")},
		{Title: "B", EditionID: ptr("OL2M")},
		{Title: "A again", WorkID: ptr("OL1W")},
		{Title: "Untitled"},
		{Title: "untitled"},
		{Title: "C", ISBN13: ptr("9780140328721")},
	}

	deduped := DeduplicateRecords(records)

	var titles []string
	for _, r := range deduped {
		titles = append(titles, r.Title)
	}
	expected := []string{"A", "B", "Untitled", "C"}
	if !reflect.DeepEqual(titles, expected) {
		t.Errorf("Expected %v, got %v", expected, titles)
	}

	if again := DeduplicateRecords(deduped); !reflect.DeepEqual(again, deduped) {
		t.Errorf("Expected deduplication to be idempotent, got %v", again)
	}
}

func TestDeduplicateRecordsEmpty(t *testing.T) {
	if got := DeduplicateRecords(nil); len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
}
