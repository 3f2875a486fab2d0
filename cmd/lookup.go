package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookresolver/internal/convert"
	"github.com/lehigh-university-libraries/bookresolver/internal/models"
)

func newLookupCmd(opts *options) *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look a book up on OpenLibrary",
		Long: `Resolves one query against OpenLibrary and prints the canonical records.

Identifiers win over the name: an ISBN is tried first, then an edition id,
then a work id (merged with its first edition). Without identifiers the name
is searched, unless it is itself an ISBN.`,
		Example: `  # Look up by ISBN
  bookresolver lookup --isbn 978-0-14-032872-1

  # Search by title with the flat schema, as YAML
  bookresolver lookup --name "The Hobbit" --schema flat --format yaml

  # Parse free text
  bookresolver lookup --text "https://openlibrary.org/works/OL45804W"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper, err := convert.ForSchema(opts.schema(flags.schema), opts.cfg.URLBuilder())
			if err != nil {
				return err
			}

			q, err := flags.query(cmd.Context(), opts)
			if err != nil {
				return err
			}

			records, err := opts.resolver().Resolve(cmd.Context(), q)
			if err != nil {
				return lookupError(err)
			}
			slog.Debug("Lookup finished", "query", q.String(), "results", len(records))

			results := make([]models.LookupResult, 0, len(records))
			for _, record := range records {
				results = append(results, mapper.Map(record))
			}
			return writeOutput(cmd.OutOrStdout(), flags.format, results)
		},
	}

	flags.register(cmd)

	return cmd
}
