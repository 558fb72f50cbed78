package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xll-gen/assetgen/internal/ui"
)

// inspectCmd represents the inspect command.
var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Show what would be embedded without writing a header",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// runInspect builds every record and prints its metadata in emission order.
func runInspect(ctx context.Context, files []string) error {
	cfg, err := loadConfig(len(files) == 0)
	if err != nil {
		return err
	}
	paths, err := resolveFiles(cfg, files)
	if err != nil {
		return err
	}

	recs, err := newEmitter(cfg).Records(ctx, paths)
	if err != nil {
		return err
	}

	ui.PrintHeader("Assets (" + strconv.Itoa(len(recs)) + ")")
	for _, r := range recs {
		ui.PrintSuccess(r.Path, r.CVar())
		ui.PrintField("mimetype", r.Mimetype)
		ui.PrintField("size", strconv.Itoa(r.Size))
		ui.PrintField("etag", r.ETag)
	}
	return nil
}
