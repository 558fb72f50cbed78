package cmd

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/xll-gen/assetgen/internal/config"
	"github.com/xll-gen/assetgen/internal/ui"
)

// doctorCmd represents the doctor command.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check for necessary tools and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor reports the state of the configuration and the mimetype detector.
// A missing detector is only a warning: files with a known extension never need it.
func runDoctor() error {
	ui.PrintHeader("Checking environment...")

	cfg, err := loadConfig(false)
	if err != nil {
		ui.PrintError("Config", err.Error())
		return err
	}
	if len(cfg.Files) == 0 {
		ui.PrintWarning("Config", fmt.Sprintf("no files listed in %s", configPath))
	} else {
		ui.PrintSuccess("Config", fmt.Sprintf("%s (%d entries)", configPath, len(cfg.Files)))
	}

	checkDetector(cfg)
	return nil
}

// checkDetector verifies that the content-type detector is available in PATH.
func checkDetector(cfg *config.Config) {
	path, err := exec.LookPath(cfg.Detector.Command)
	if err != nil {
		ui.PrintWarning("Detector", fmt.Sprintf("%s NOT FOUND: files without a .js, .css or .html extension will fail", cfg.Detector.Command))
		return
	}
	ui.PrintSuccess("Detector", path)
}
