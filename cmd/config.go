package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/promodash/internal/config"
	"github.com/KaramelBytes/promodash/internal/dataset"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set promodash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "default_category: %s\n", cfg.DefaultCategory)
		fmt.Fprintf(out, "default_department: %s\n", cfg.DefaultDepartment)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", cfg.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", cfg.WriteTimeoutSec)
		fmt.Fprintf(out, "session_ttl_min: %d\n", cfg.SessionTTLMin)
		fmt.Fprintf(out, "max_sessions: %d\n", cfg.MaxSessions)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file on disk so flag overrides are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "data_path":
			c.DataPath = val
		case "delimiter":
			c.Delimiter = val
			if _, err := c.DelimiterRune(); err != nil {
				return err
			}
		case "sheet_name":
			c.SheetName = val
		case "listen_addr":
			c.ListenAddr = val
		case "default_category":
			if !dataset.IsRateField(dataset.Field(val)) {
				return fmt.Errorf("invalid default_category: %s", val)
			}
			c.DefaultCategory = val
		case "default_department":
			if !dataset.IsDepartment(val) {
				return fmt.Errorf("invalid default_department: %s", val)
			}
			c.DefaultDepartment = val
		case "read_timeout_sec", "write_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			if key == "read_timeout_sec" {
				c.ReadTimeoutSec = i
			} else {
				c.WriteTimeoutSec = i
			}
		case "session_ttl_min", "max_sessions":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid value for %s: %v (must be a positive integer)", key, val)
			}
			if key == "session_ttl_min" {
				c.SessionTTLMin = i
			} else {
				c.MaxSessions = i
			}
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				c.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "log_format":
			switch val {
			case "text", "json":
				c.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
