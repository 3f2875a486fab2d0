package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookresolver/internal/convert"
	"github.com/lehigh-university-libraries/bookresolver/internal/images"
	"github.com/lehigh-university-libraries/bookresolver/internal/openlibrary"
)

func newImagesCmd(opts *options) *cobra.Command {
	var flags queryFlags
	var downloadDir string

	cmd := &cobra.Command{
		Use:   "images",
		Short: "List or download the cover images for a lookup",
		Long: `Resolves a query and prints the cover images of every result, without
duplicates. With --download the covers are also saved to a directory.`,
		Example: `  # List covers for a title search
  bookresolver images --name "The Hobbit"

  # Download covers for an ISBN
  bookresolver images --isbn 9780140328721 --download ./covers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper, err := convert.ForSchema(opts.schema(flags.schema), opts.cfg.URLBuilder())
			if err != nil {
				return err
			}

			q, err := flags.query(cmd.Context(), opts)
			if err != nil {
				return err
			}

			imgs, err := opts.resolver().ResolveImages(cmd.Context(), q, mapper)
			if err != nil {
				return lookupError(err)
			}

			if downloadDir == "" {
				return writeOutput(cmd.OutOrStdout(), flags.format, imgs)
			}

			fetcher := images.NewFetcher(opts.cfg.OpenLibrary.Timeout, opts.cfg.OpenLibrary.UserAgent)
			downloads, err := fetcher.DownloadAll(cmd.Context(), imgs, downloadDir, openlibrary.Slug(q.String()))
			if err != nil {
				return fmt.Errorf("failed to download covers: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), flags.format, downloads)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&downloadDir, "download", "d", "", "Directory to save the cover images to")

	return cmd
}
