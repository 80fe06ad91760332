package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixel-tools-mcp/internal/config"
	"github.com/ironsheep/pixel-tools-mcp/internal/imaging"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Print dimensions, format and digest of image files as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.Default().SaveToFile(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(infoCmd, configCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cache := imaging.NewBufferCache(cfg.Limits.MaxPixels)

	infos := make(map[string]*imaging.ImageInfo, len(args))
	for _, path := range args {
		info, err := imaging.LoadInfo(cache, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		infos[path] = info
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(infos)
}
