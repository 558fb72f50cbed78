package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xll-gen/assetgen/internal/ui"
)

// outputPath is set via the --output flag.
var outputPath string

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate the asset header",
	Long: `Generate embeds the given files (or the files listed in assetgen.yaml) into a
C header. Files are embedded in lexicographic order. The header is replaced
only when every file was embedded successfully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), args, outputPath)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "The file to write the header to")
	rootCmd.AddCommand(generateCmd)
}

// runGenerate resolves the configuration and writes the header.
//
// Parameters:
//   - ctx: Cancels a running mimetype detector.
//   - files: Files given on the command line; the configured files are used when empty.
//   - output: Header path; the configured output is used when empty.
//
// Returns:
//   - error: An error if any asset cannot be embedded or the header cannot be written.
func runGenerate(ctx context.Context, files []string, output string) error {
	cfg, err := loadConfig(len(files) == 0)
	if err != nil {
		return err
	}

	if output == "" {
		output = cfg.Output
	}
	if output == "" {
		return fmt.Errorf("no output path (use --output or set output in %s)", configPath)
	}

	paths, err := resolveFiles(cfg, files)
	if err != nil {
		return err
	}

	if err := newEmitter(cfg).Emit(ctx, paths, output); err != nil {
		return err
	}
	ui.PrintSuccess("Generated", fmt.Sprintf("%s (%d assets)", output, len(paths)))
	return nil
}
