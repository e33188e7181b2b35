package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	InputPath  string `mapstructure:"input_path" yaml:"input_path"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	// Delimiter overrides CSV delimiter sniffing when set.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter,omitempty"`
	// Sheet selects the XLSX sheet; empty means the first one.
	Sheet string `mapstructure:"sheet" yaml:"sheet,omitempty"`

	// Charts
	PlotsEnabled bool   `mapstructure:"plots_enabled" yaml:"plots_enabled"`
	PlotsDir     string `mapstructure:"plots_dir" yaml:"plots_dir"`
	PlotFormat   string `mapstructure:"plot_format" yaml:"plot_format"`
	HistBins     int    `mapstructure:"hist_bins" yaml:"hist_bins"`

	// Reporting
	HeadRows    int    `mapstructure:"head_rows" yaml:"head_rows"`
	SummaryPath string `mapstructure:"summary_path" yaml:"summary_path,omitempty"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`
}

// Dir returns ~/.strokeprep.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".strokeprep"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.strokeprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("STROKEPREP")
	v.AutomaticEnv()

	v.SetDefault("input_path", "healthcare-dataset-stroke-data.csv")
	v.SetDefault("output_path", "cleaned_healthcare_dataset.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet", "")
	v.SetDefault("plots_enabled", true)
	v.SetDefault("plots_dir", "plots")
	v.SetDefault("plot_format", "png")
	v.SetDefault("hist_bins", 20)
	v.SetDefault("head_rows", 10)
	v.SetDefault("summary_path", "")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// A missing file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the pipeline cannot use.
func (c *Global) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input_path must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}
	if len([]rune(c.Delimiter)) > 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.HistBins <= 0 {
		return fmt.Errorf("hist_bins must be positive, got %d", c.HistBins)
	}
	if c.HeadRows < 0 {
		return fmt.Errorf("head_rows must not be negative, got %d", c.HeadRows)
	}
	return nil
}

// DelimiterRune returns the configured delimiter or 0 for auto-detection.
func (c *Global) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return 0
}
