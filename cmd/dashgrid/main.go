package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gnemet/dashgrid/catalog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *catalog.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "dashgrid",
	Short:         "Dashboard widget query engine",
	Long:          "dashgrid serves and queries dashboard widgets (tables, task lists, kanban boards, insight lists) over synthetic data.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = catalog.LoadConfig(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
			cfg = catalog.DefaultConfig()
		case err != nil:
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = cfg.Logger()
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config.yaml")
	rootCmd.AddCommand(serveCmd, queryCmd, validateCmd, toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
