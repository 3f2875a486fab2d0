package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/bookresolver/internal/models"
)

func ptr[T any](v T) *T { return &v }

func sampleSpec() BatchSpec {
	var params models.Params
	params.SetStrings(models.ParamAuthors, []string{"J.R.R. Tolkien"})
	params.SetString(models.ParamOpenLibraryWorkID, "OL45804W")

	return BatchSpec{
		Config: BatchConfig{Input: "queries.jsonl", Schema: "relations", Concurrency: 2, Timestamp: "2024-01-01_00-00-00"},
		Results: []BatchResult{
			{
				Identifier: "hobbit",
				Query:      "isbn13=9780140328721",
				Results: []models.LookupResult{{
					Metadata: models.Book{
						ID:                "isbn13:9780140328721",
						Name:              "The Hobbit",
						Kind:              models.KindBook,
						Year:              ptr(uint16(1937)),
						ISBN13:            ptr("9780140328721"),
						OpenLibraryWorkID: ptr("OL45804W"),
						Params:            params,
					},
					Relations: &models.Relations{ExtImages: []models.ExternalImage{
						{Kind: models.ImageTypePoster, URL: "https://covers.openlibrary.org/b/id/12345-L.jpg"},
					}},
				}},
			},
			{Identifier: "2", Query: "", Error: "not supported"},
		},
	}
}

func TestSaveYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.yaml")
	if err := Save(path, sampleSpec()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	out := string(data)
	for _, want := range []string{"identifier: hobbit", "isbn13:9780140328721", "error: not supported", "- J.R.R. Tolkien"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := Save(path, sampleSpec()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var spec BatchSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("Failed to decode output: %v", err)
	}
	if len(spec.Results) != 2 || spec.Results[0].Results[0].Metadata.Name != "The Hobbit" {
		t.Errorf("Unexpected round trip %+v", spec)
	}
}

func TestSaveParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.parquet")
	if err := Save(path, sampleSpec()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rows, err := parquet.ReadFile[ResultRow](path)
	if err != nil {
		t.Fatalf("Failed to read parquet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Year != 1937 || rows[0].WorkID != "OL45804W" {
		t.Errorf("Unexpected row %+v", rows[0])
	}
	if !reflect.DeepEqual(rows[0].Images, []string{"https://covers.openlibrary.org/b/id/12345-L.jpg"}) {
		t.Errorf("Unexpected images %v", rows[0].Images)
	}
	if rows[1].Error != "not supported" || rows[1].ID != "" {
		t.Errorf("Unexpected error row %+v", rows[1])
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "results.csv"), sampleSpec()); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestRowsFlatSchemaImages(t *testing.T) {
	spec := BatchSpec{Results: []BatchResult{{
		Identifier: "1",
		Results: []models.LookupResult{{
			Metadata: models.Book{ID: "olwid:OL1W", Name: "X"},
			Images:   []models.ExternalImage{{Kind: models.ImageTypePoster, URL: "u"}},
		}},
	}}}

	rows := Rows(spec)
	if len(rows) != 1 || !reflect.DeepEqual(rows[0].Images, []string{"u"}) {
		t.Errorf("Unexpected rows %+v", rows)
	}
}
