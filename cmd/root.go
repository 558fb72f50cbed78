package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xll-gen/assetgen/internal/asset"
	"github.com/xll-gen/assetgen/internal/config"
	"github.com/xll-gen/assetgen/internal/header"
	"github.com/xll-gen/assetgen/pkg/log"
)

var (
	// configPath is set via the --config flag.
	configPath string
	// logLevel and logPath override the logging section of the configuration.
	logLevel string
	logPath  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "assetgen",
	Short: "Embed static files into a C header",
	Long: `assetgen reads static files (scripts, stylesheets, markup) and writes a single
C header holding each file's bytes plus a table of name, mimetype, size and ETag,
so a program can serve its assets without touching the filesystem.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "Write logs to this file instead of stderr")
}

// loadConfig resolves the effective configuration: the config file, then
// ASSETGEN_* environment variables (a .env file is loaded first), then flags.
// A missing config file is only an error when required is set or the path
// was given explicitly.
//
// Returns:
//   - *config.Config: The validated configuration with defaults applied.
//   - error: An error if loading, parsing or validation fails.
func loadConfig(required bool) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		explicit := rootCmd.PersistentFlags().Changed("config")
		if required || explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &config.Config{}
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logPath != "" {
		cfg.Logging.Path = logPath
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if err := log.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

// newEmitter wires the asset pipeline described by cfg.
func newEmitter(cfg *config.Config) *header.Emitter {
	detector := asset.FileCommand{
		Command: cfg.Detector.Command,
		Args:    cfg.Detector.Args,
		Timeout: cfg.DetectTimeout(),
	}
	builder := asset.NewBuilder(asset.NewResolver(detector, cfg.Mimetypes))
	return header.New(builder, header.Options{
		Indent:  cfg.IndentWidth(),
		PerLine: cfg.PerLine,
	})
}

// resolveFiles returns args when given, otherwise the expanded files of cfg.
func resolveFiles(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("no input files (pass them as arguments or list them under files in %s)", configPath)
	}
	return config.ExpandFiles(cfg.Files)
}
