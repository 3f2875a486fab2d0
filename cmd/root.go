package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookresolver/internal/config"
	"github.com/lehigh-university-libraries/bookresolver/internal/lookup"
	"github.com/lehigh-university-libraries/bookresolver/internal/queryparse"
)

// options is shared by every subcommand; cfg is filled in PersistentPreRunE.
type options struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bookresolver",
		Short: "Resolve books to canonical metadata and cover images using OpenLibrary",
		Long: `Bookresolver looks books up on OpenLibrary by ISBN, edition id, work id or title
and returns canonical metadata records with cover images, generated author
entities and subject tags.

It can be used one lookup at a time, as an HTTP service, or in batch over
JSONL and Parquet files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := cfg.Level()
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newLookupCmd(opts))
	cmd.AddCommand(newImagesCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newBatchCmd(opts))

	return cmd
}

func (o *options) resolver() *lookup.Resolver {
	return lookup.NewResolver(o.cfg.Client(), o.cfg.URLBuilder())
}

func (o *options) parser() (*queryparse.Parser, error) {
	provider, err := queryparse.NewProvider(o.cfg.QueryParser.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create query parser: %w", err)
	}
	return queryparse.New(provider, o.cfg.QueryParser.Model, o.cfg.QueryParser.Temperature), nil
}

func (o *options) schema(flag string) string {
	if flag != "" {
		return flag
	}
	return o.cfg.Schema
}
