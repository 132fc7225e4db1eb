// Package config loads pdbench settings from an optional config file and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/weiihann/pdbench/report"
)

// Keys shared between flags and the config file.
const (
	KeyOutputDir  = "output_dir"
	KeyTitle      = "title"
	KeyLabels     = "labels"
	KeyLogLevel   = "log.level"
	KeyLogFormat  = "log.format"
	defaultFormat = "text"
)

// Config is the merged configuration (flags > file > defaults).
type Config struct {
	OutputDir string        `mapstructure:"output_dir"`
	Title     string        `mapstructure:"title"`
	Labels    report.Labels `mapstructure:"labels"`
	Log       Log           `mapstructure:"log"`
}

// Log selects the log level and handler.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReportOptions returns the report presentation described by c.
func (c Config) ReportOptions() report.Options {
	return report.Options{Title: c.Title, Labels: c.Labels}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	def := report.DefaultOptions()

	v.SetDefault(KeyOutputDir, report.DefaultDir)
	v.SetDefault(KeyTitle, def.Title)
	v.SetDefault(KeyLabels+".reference", def.Labels.Reference)
	v.SetDefault(KeyLabels+".candidate_a", def.Labels.CandidateA)
	v.SetDefault(KeyLabels+".candidate_b", def.Labels.CandidateB)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, defaultFormat)
}

// Load reads the config file at path (if any) into v and returns the
// merged configuration. A missing file at the default location is not an
// error; an explicitly named file must exist.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pdbench")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output_dir must not be empty")
	}

	return nil
}
