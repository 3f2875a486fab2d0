package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookresolver/internal/models"
)

// BatchConfig records how a batch run was made
type BatchConfig struct {
	Input       string `json:"input" yaml:"input"`
	Schema      string `json:"schema" yaml:"schema"`
	Concurrency int    `json:"concurrency" yaml:"concurrency"`
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
}

// BatchResult is the outcome of one input row
type BatchResult struct {
	Identifier string                `json:"identifier" yaml:"identifier"`
	Query      string                `json:"query" yaml:"query"`
	Results    []models.LookupResult `json:"results,omitempty" yaml:"results,omitempty"`
	Error      string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchSpec represents a complete batch run
type BatchSpec struct {
	Config  BatchConfig   `json:"config" yaml:"config"`
	Results []BatchResult `json:"results" yaml:"results"`
}

// Save writes spec to path, picking YAML, JSON or Parquet by extension.
func Save(path string, spec BatchSpec) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return saveYAML(path, spec)
	case ".json":
		return saveJSON(path, spec)
	case ".parquet":
		return saveParquet(path, spec)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: .yaml, .json, .parquet)", ext)
	}
}

func saveYAML(path string, spec BatchSpec) error {
	data, err := yaml.Marshal(&spec)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

func saveJSON(path string, spec BatchSpec) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// ResultRow is the flattened Parquet form: one row per resolved book, or one
// row carrying the error for a failed query.
type ResultRow struct {
	Identifier string   `parquet:"identifier"`
	Query      string   `parquet:"query"`
	ID         string   `parquet:"id"`
	Name       string   `parquet:"name"`
	Year       int32    `parquet:"year"`
	ISBN13     string   `parquet:"isbn13"`
	EditionID  string   `parquet:"openlibrary_edition_id"`
	WorkID     string   `parquet:"openlibrary_work_id"`
	Authors    []string `parquet:"authors,list"`
	Subjects   []string `parquet:"subjects,list"`
	Images     []string `parquet:"images,list"`
	Error      string   `parquet:"error"`
}

// Rows flattens a spec into Parquet rows
func Rows(spec BatchSpec) []ResultRow {
	var rows []ResultRow
	for _, r := range spec.Results {
		if r.Error != "" || len(r.Results) == 0 {
			rows = append(rows, ResultRow{Identifier: r.Identifier, Query: r.Query, Error: r.Error})
			continue
		}
		for _, result := range r.Results {
			rows = append(rows, flatten(r, result))
		}
	}
	return rows
}

func flatten(r BatchResult, result models.LookupResult) ResultRow {
	book := result.Metadata
	row := ResultRow{
		Identifier: r.Identifier,
		Query:      r.Query,
		ID:         book.ID,
		Name:       book.Name,
		ISBN13:     deref(book.ISBN13),
		EditionID:  deref(book.OpenLibraryEditionID),
		WorkID:     deref(book.OpenLibraryWorkID),
	}
	if book.Year != nil {
		row.Year = int32(*book.Year)
	}
	row.Authors, _ = book.Params.Strings(models.ParamAuthors)
	row.Subjects, _ = book.Params.Strings(models.ParamSubjects)

	images := result.Images
	if result.Relations != nil {
		images = result.Relations.ExtImages
	}
	for _, image := range images {
		row.Images = append(row.Images, image.URL)
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func saveParquet(path string, spec BatchSpec) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ResultRow](file)
	if _, err := writer.Write(Rows(spec)); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return file.Close()
}
