package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xll-gen/assetgen/internal/manual"
	"github.com/xll-gen/assetgen/internal/ui"
)

// manualCmd represents the manual command.
var manualCmd = &cobra.Command{
	Use:   "manual [MARKDOWN TEMPLATE OUTPUT]",
	Short: "Render the markdown manual into an HTML page",
	Long: `Manual renders MARKDOWN to HTML and writes TEMPLATE to OUTPUT with every
@MANUAL_HTML@ replaced by the result. Without arguments the manual section of
assetgen.yaml is used; an empty template selects the built-in page.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("accepts 0 or 3 arg(s), received %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runManual(args)
	},
}

func init() {
	rootCmd.AddCommand(manualCmd)
}

// runManual renders the manual page from args or the configuration.
func runManual(args []string) error {
	cfg, err := loadConfig(len(args) == 0)
	if err != nil {
		return err
	}

	src, tmpl, out := cfg.Manual.Markdown, cfg.Manual.Template, cfg.Manual.Output
	if len(args) == 3 {
		src, tmpl, out = args[0], args[1], args[2]
	}
	if src == "" || out == "" {
		return fmt.Errorf("manual: markdown and output must be set in %s", configPath)
	}

	if err := manual.Generate(src, tmpl, out); err != nil {
		return err
	}
	ui.PrintSuccess("Rendered", out)
	return nil
}
