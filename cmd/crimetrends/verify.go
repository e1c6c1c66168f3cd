package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/crimetrends/internal/config"
	"github.com/nao1215/crimetrends/internal/grid"
)

// errVerifyFailed is returned when a published file no longer matches the manifest.
var errVerifyFailed = errors.New("published grid does not match its manifest")

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [grid-dir]",
		Short: "Check a published grid against its manifest",
		Long: `Verify recomputes the SHA3-256 digest of every file listed in the grid's
manifest.json and reports files that changed or went missing since the build.

Examples:
  # Verify the grid of the default output directory
  crimetrends verify

  # Verify a grid published elsewhere
  crimetrends verify site/trelliscope`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerifyCmd,
	}
}

// runVerifyCmd executes the verify command.
func runVerifyCmd(cmd *cobra.Command, args []string) error {
	dir := config.NewConfig().GridPath()
	if len(args) == 1 {
		dir = args[0]
	}

	manifest, err := grid.ReadManifest(dir)
	if err != nil {
		return err
	}
	mismatched, err := grid.Verify(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(mismatched) > 0 {
		for _, path := range mismatched {
			fmt.Fprintf(out, "MODIFIED  %s\n", path)
		}
		return fmt.Errorf("%w: %d of %d files", errVerifyFailed, len(mismatched), len(manifest.Files))
	}

	fmt.Fprintf(out, "OK: %d files, %d panels, build %s\n", len(manifest.Files), manifest.Panels, manifest.BuildID)
	return nil
}
