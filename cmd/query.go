package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
)

var errNoQuery = errors.New("nothing to look up: pass --name, --isbn, --edition, --work or --text")

// queryFlags are the lookup inputs shared by lookup and images.
type queryFlags struct {
	name    string
	isbn    string
	edition string
	work    string
	text    string
	schema  string
	format  string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Title to search for")
	cmd.Flags().StringVar(&f.isbn, "isbn", "", "ISBN-13, hyphens allowed")
	cmd.Flags().StringVar(&f.edition, "edition", "", "OpenLibrary edition id (OL7353617M or /books/OL7353617M)")
	cmd.Flags().StringVar(&f.work, "work", "", "OpenLibrary work id (OL45804W or /works/OL45804W)")
	cmd.Flags().StringVar(&f.text, "text", "", "Free text to parse into a query")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Output schema: relations or flat (default from config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "json", "Output format: json or yaml")
}

func (f *queryFlags) query(ctx context.Context, opts *options) (lookup.Query, error) {
	q := lookup.Query{Name: f.name}
	ids := lookup.IDs{ISBN13: f.isbn, EditionID: f.edition, WorkID: f.work}
	if ids != (lookup.IDs{}) {
		q.IDs = &ids
	}
	if !q.Empty() || f.text == "" {
		return q, nil
	}

	parser, err := opts.parser()
	if err != nil {
		return lookup.Query{}, err
	}
	return parser.Parse(ctx, f.text), nil
}

func lookupError(err error) error {
	if errors.Is(err, lookup.ErrNotSupported) {
		return errNoQuery
	}
	return err
}

func writeOutput(w io.Writer, format string, data any) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
}
