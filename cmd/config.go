package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/strokeprep/internal/charts"
	cfgpkg "github.com/KaramelBytes/strokeprep/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set strokeprep configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("input_path: %s\n", cfg.InputPath)
		fmt.Printf("output_path: %s\n", cfg.OutputPath)
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.Sheet != "" {
			fmt.Printf("sheet: %s\n", cfg.Sheet)
		}
		fmt.Printf("plots_enabled: %t\n", cfg.PlotsEnabled)
		fmt.Printf("plots_dir: %s\n", cfg.PlotsDir)
		fmt.Printf("plot_format: %s\n", cfg.PlotFormat)
		fmt.Printf("hist_bins: %d\n", cfg.HistBins)
		fmt.Printf("head_rows: %d\n", cfg.HeadRows)
		if cfg.SummaryPath != "" {
			fmt.Printf("summary_path: %s\n", cfg.SummaryPath)
		}
		fmt.Printf("log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "input_path":
		c.InputPath = val
	case "output_path":
		c.OutputPath = val
	case "delimiter":
		switch val {
		case "tab", "\\t":
			val = "\t"
		case "auto":
			val = ""
		}
		c.Delimiter = val
	case "sheet":
		c.Sheet = val
	case "plots_enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for plots_enabled: %v", val)
		}
		c.PlotsEnabled = b
	case "plots_dir":
		c.PlotsDir = val
	case "plot_format":
		f := strings.ToLower(val)
		if !charts.ValidFormat(f) {
			return fmt.Errorf("invalid plot_format: %s (use png, svg, pdf, jpg, eps or tif)", val)
		}
		c.PlotFormat = f
	case "hist_bins":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for hist_bins: %v", val)
		}
		c.HistBins = i
	case "head_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for head_rows: %v", val)
		}
		c.HeadRows = i
	case "summary_path":
		c.SummaryPath = val
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "text":
			c.LogFormat = "console"
		case "json":
			c.LogFormat = "json"
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
