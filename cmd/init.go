package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xll-gen/assetgen/internal/atomicfile"
	"github.com/xll-gen/assetgen/internal/templates"
	"github.com/xll-gen/assetgen/internal/ui"
)

// initOutput is set via the init --output flag.
var initOutput string

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init [patterns...]",
	Short: "Create an assetgen.yaml configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(configPath, initOutput, args)
	},
}

func init() {
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "assets.h", "Header path written into the configuration")
	rootCmd.AddCommand(initCmd)
}

// runInit writes a configuration scaffold to path.
//
// Parameters:
//   - path: The configuration file to create. It must not exist.
//   - output: The header path to configure.
//   - patterns: The file patterns to configure; defaults to everything under static/.
//
// Returns:
//   - error: An error if the file exists or cannot be written.
func runInit(path, output string, patterns []string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return fmt.Errorf("%s already exists", path)
	}
	if len(patterns) == 0 {
		patterns = []string{"static/**/*"}
	}

	data := struct {
		Output string
		Files  []string
	}{
		Output: output,
		Files:  quoteAll(patterns),
	}

	var buf bytes.Buffer
	if err := templates.Execute(&buf, "assetgen.yaml.tmpl", data); err != nil {
		return err
	}
	if err := atomicfile.WriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	ui.PrintSuccess("Created", path)
	return nil
}

// quoteAll quotes patterns so YAML does not read '*' as an alias.
func quoteAll(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = fmt.Sprintf("%q", p)
	}
	return out
}
