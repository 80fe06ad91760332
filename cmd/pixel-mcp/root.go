package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixel-tools-mcp/internal/config"
	"github.com/ironsheep/pixel-tools-mcp/internal/server"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded before any command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pixel-mcp",
	Short: "MCP server for exact pixel resampling and seam carving",
	Long: `pixel-mcp resizes images exactly. Rational resampling replicates and
decimates whole pixels with no blending; seam carving shrinks an image by
removing its least important seams.

Without a subcommand it serves the MCP protocol over stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $"+config.EnvConfigPath+" or "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pixel-mcp %s (%s/%s, %s)\n",
		Version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup configures logging and loads the configuration.
func setup(cmd *cobra.Command, _ []string) error {
	// stdout carries the MCP protocol, so logs go to stderr.
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	path := configPath
	if path == "" && os.Getenv(config.EnvConfigPath) == "" {
		if _, err := os.Stat(config.DefaultPath()); err == nil {
			path = config.DefaultPath()
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	loaded, err := config.FromEnv(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		loaded.Server.LogLevel = "debug"
	}
	cfg = loaded

	server.Version = Version
	logVerbose("pixel-mcp %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	return nil
}

// logVerbose logs only when debug logging is enabled.
func logVerbose(format string, args ...any) {
	if cfg != nil && cfg.Debug() {
		log.Printf(format, args...)
	}
}
