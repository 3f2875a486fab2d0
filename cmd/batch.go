package cmd

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookresolver/internal/convert"
	"github.com/lehigh-university-libraries/bookresolver/internal/dataset"
	"github.com/lehigh-university-libraries/bookresolver/internal/results"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		input       string
		output      string
		schema      string
		concurrency int
		sample      int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve every query in a JSONL or Parquet file",
		Long: `Reads lookup queries from a JSONL or Parquet file, resolves them against
OpenLibrary and writes the results as YAML, JSON or Parquet.

Each input row may carry id, name, text, isbn13, openlibrary_edition_id and
openlibrary_work_id. JSONL rows may also nest the identifiers under "ids".
A failed row is recorded with its error; it does not stop the batch.`,
		Example: `  # Resolve queries with 4 concurrent lookups
  bookresolver batch --input queries.jsonl --output results.yaml --concurrency 4

  # Parquet in, Parquet out, first 100 rows
  bookresolver batch --input queries.parquet --output results.parquet --sample 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return fmt.Errorf("concurrency must be at least 1")
			}

			rows, err := dataset.NewLoader(input).LoadSample(sample)
			if err != nil {
				return fmt.Errorf("failed to load queries: %w", err)
			}

			schema = opts.schema(schema)
			mapper, err := convert.ForSchema(schema, opts.cfg.URLBuilder())
			if err != nil {
				return err
			}
			parser, err := opts.parser()
			if err != nil {
				return err
			}
			resolver := opts.resolver()

			slog.Info("Processing queries", "count", len(rows), "concurrency", concurrency)

			batch := make([]results.BatchResult, len(rows))
			var wg sync.WaitGroup
			semaphore := make(chan struct{}, concurrency)

			for i, row := range rows {
				wg.Add(1)
				go func(idx int, row dataset.QueryRow) {
					defer wg.Done()
					semaphore <- struct{}{}        // Acquire
					defer func() { <-semaphore }() // Release

					q := row.Query()
					if q.Empty() && row.Text != "" {
						q = parser.Parse(cmd.Context(), row.Text)
					}

					result := results.BatchResult{Identifier: row.Identifier(idx), Query: q.String()}
					records, err := resolver.Resolve(cmd.Context(), q)
					if err != nil {
						slog.Warn("Lookup failed", "id", result.Identifier, "err", err)
						result.Error = err.Error()
					}
					for _, record := range records {
						result.Results = append(result.Results, mapper.Map(record))
					}

					slog.Info("Processed query", "id", result.Identifier, "results", len(result.Results), "progress", fmt.Sprintf("%d/%d", idx+1, len(rows)))
					batch[idx] = result
				}(i, row)
			}
			wg.Wait()

			spec := results.BatchSpec{
				Config: results.BatchConfig{
					Input:       input,
					Schema:      schema,
					Concurrency: concurrency,
					Timestamp:   time.Now().Format("2006-01-02_15-04-05"),
				},
				Results: batch,
			}
			if err := results.Save(output, spec); err != nil {
				return fmt.Errorf("failed to save results: %w", err)
			}

			failed := 0
			found := 0
			for _, r := range batch {
				if r.Error != "" {
					failed++
				}
				found += len(r.Results)
			}
			slog.Info("Batch finished", "output", output, "queries", len(batch), "records", found, "failed", failed)
			fmt.Fprintf(cmd.OutOrStdout(), "Results saved to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to a .jsonl or .parquet query file")
	cmd.Flags().StringVarP(&output, "output", "o", "results.yaml", "Path to the .yaml, .json or .parquet results file")
	cmd.Flags().StringVar(&schema, "schema", "", "Output schema: relations or flat (default from config)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Number of concurrent lookups")
	cmd.Flags().IntVar(&sample, "sample", 0, "Only process the first N rows (0 for all)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
