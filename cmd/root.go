package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/promodash/internal/config"
	"github.com/KaramelBytes/promodash/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Data source overrides shared by serve/summary/check
	flagDataPath  string
	flagDelimiter string
	flagSheetName string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:          "promodash",
	Short:        "promodash: employee promotion analytics dashboard",
	Long:         `promodash loads an employee promotion dataset once and serves an interactive dashboard (promotion rate by category, rating x education density, training score vs service) or prints the same tables as a report.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.promodash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "dataset path, .csv/.tsv/.xlsx (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{LogLevel: "info", LogFormat: "text"}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("sheet-name") {
		cfg.SheetName = flagSheetName
	}

	lc := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}
	if debug {
		lc.Level = "debug"
	}
	if err := logging.Setup(os.Stderr, lc); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using default logger\n", err)
	}
}
