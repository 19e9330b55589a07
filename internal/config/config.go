// Package config loads AnalysisOptions, SuggesterOptions and
// ExportOptions from a YAML or JSON file plus environment variables,
// the way the teacher's pkg/config loads its server configuration:
// a typed struct with mapstructure tags, sentinel validation errors,
// and viper doing the file/env merge.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// Sentinel validation errors.
var (
	ErrInvalidTopK        = errors.New("top_k must be positive")
	ErrInvalidThreshold   = errors.New("suggester threshold must be non-negative")
	ErrInvalidMinIncluders = errors.New("minimum includer count must be positive")
)

// Default configuration values, mirroring spec.md §6's AnalysisOptions
// and SuggesterOptions defaults.
const (
	defaultTopK = 10

	defaultPCHMinIncluders   = 10
	defaultPCHMinMs          = 500
	defaultSlowTUMs          = 5000
	defaultFwdMinIncluders   = 5
	defaultHeavyTmplCount    = 50
	defaultHeavyTmplMs       = 1000
	defaultUnityMinFiles     = 20
	defaultUnityMeanMs       = 500
	defaultPimplMinIncluders = 10
	defaultPimplMinMs        = 300
)

// AnalysisConfig mirrors AnalysisOptions: {top_k, include_symbols,
// normalize_paths}.
type AnalysisConfig struct {
	TopK           int  `mapstructure:"top_k"`
	IncludeSymbols bool `mapstructure:"include_symbols"`
	NormalizePaths bool `mapstructure:"normalize_paths"`
}

// SuggesterConfig mirrors SuggesterOptions' enumerated thresholds.
type SuggesterConfig struct {
	PCHMinIncluders   int     `mapstructure:"pch_min_includers"`
	PCHMinMs          float64 `mapstructure:"pch_min_ms"`
	SlowTUMs          float64 `mapstructure:"slow_tu_ms"`
	FwdMinIncluders   int     `mapstructure:"fwd_min_includers"`
	HeavyTmplCount    int     `mapstructure:"heavy_tmpl_count"`
	HeavyTmplMs       float64 `mapstructure:"heavy_tmpl_ms"`
	UnityMinFiles     int     `mapstructure:"unity_min_files"`
	UnityMeanMs       float64 `mapstructure:"unity_mean_ms"`
	PimplMinIncluders int     `mapstructure:"pimpl_min_includers"`
	PimplMinMs        float64 `mapstructure:"pimpl_min_ms"`
	EnabledRules      []string `mapstructure:"enabled_rules"`
}

// ExportConfig mirrors ExportOptions.
type ExportConfig struct {
	PrettyPrint        bool   `mapstructure:"pretty_print"`
	IncludeMetadata    bool   `mapstructure:"include_metadata"`
	IncludeSuggestions bool   `mapstructure:"include_suggestions"`
	IncludeRawData     bool   `mapstructure:"include_raw_data"`
	MinPriority        string `mapstructure:"min_priority"`
	MaxEntries         int    `mapstructure:"max_entries"`
}

// LoggingConfig controls the slog handler built by internal/observability.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config holds every configurable surface of a bha run.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Suggester SuggesterConfig `mapstructure:"suggester"`
	Export    ExportConfig    `mapstructure:"export"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// LoadConfig loads configuration from configPath (YAML or JSON, detected
// by extension) and environment variables prefixed BHA_. An empty
// configPath looks for ./bha.yaml, ./config/bha.yaml and /etc/bha/bha.yaml.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("bha")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/bha")
	}

	v.SetEnvPrefix("BHA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(configPath), ".json") {
		if data, readErr := os.ReadFile(configPath); readErr == nil {
			if err := ValidateJSONConfig(data); err != nil {
				return nil, fmt.Errorf("invalid configuration: %w", err)
			}
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.top_k", defaultTopK)
	v.SetDefault("analysis.include_symbols", true)
	v.SetDefault("analysis.normalize_paths", true)

	v.SetDefault("suggester.pch_min_includers", defaultPCHMinIncluders)
	v.SetDefault("suggester.pch_min_ms", defaultPCHMinMs)
	v.SetDefault("suggester.slow_tu_ms", defaultSlowTUMs)
	v.SetDefault("suggester.fwd_min_includers", defaultFwdMinIncluders)
	v.SetDefault("suggester.heavy_tmpl_count", defaultHeavyTmplCount)
	v.SetDefault("suggester.heavy_tmpl_ms", defaultHeavyTmplMs)
	v.SetDefault("suggester.unity_min_files", defaultUnityMinFiles)
	v.SetDefault("suggester.unity_mean_ms", defaultUnityMeanMs)
	v.SetDefault("suggester.pimpl_min_includers", defaultPimplMinIncluders)
	v.SetDefault("suggester.pimpl_min_ms", defaultPimplMinMs)

	v.SetDefault("export.pretty_print", true)
	v.SetDefault("export.include_metadata", true)
	v.SetDefault("export.include_suggestions", true)
	v.SetDefault("export.include_raw_data", false)
	v.SetDefault("export.min_priority", "low")
	v.SetDefault("export.max_entries", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func validateConfig(cfg *Config) error {
	if cfg.Analysis.TopK <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTopK, cfg.Analysis.TopK)
	}

	thresholds := map[string]float64{
		"pch_min_ms":    cfg.Suggester.PCHMinMs,
		"slow_tu_ms":    cfg.Suggester.SlowTUMs,
		"heavy_tmpl_ms": cfg.Suggester.HeavyTmplMs,
		"unity_mean_ms": cfg.Suggester.UnityMeanMs,
		"pimpl_min_ms":  cfg.Suggester.PimplMinMs,
	}

	for name, value := range thresholds {
		if value < 0 {
			return fmt.Errorf("%w: %s = %f", ErrInvalidThreshold, name, value)
		}
	}

	includers := map[string]int{
		"pch_min_includers":   cfg.Suggester.PCHMinIncluders,
		"fwd_min_includers":   cfg.Suggester.FwdMinIncluders,
		"pimpl_min_includers": cfg.Suggester.PimplMinIncluders,
	}

	for name, value := range includers {
		if value <= 0 {
			return fmt.Errorf("%w: %s = %d", ErrInvalidMinIncluders, name, value)
		}
	}

	return nil
}

// ToSuggesterOptions converts the loaded SuggesterConfig into
// suggest.Options, resolving enabled_rules (empty means every rule).
func (c SuggesterConfig) ToSuggesterOptions() suggest.Options {
	opts := suggest.Options{
		PCHMinIncluders:   c.PCHMinIncluders,
		PCHMinMs:          c.PCHMinMs,
		SlowTUMs:          c.SlowTUMs,
		FwdMinIncluders:   c.FwdMinIncluders,
		HeavyTmplCount:    c.HeavyTmplCount,
		HeavyTmplMs:       c.HeavyTmplMs,
		UnityMinFiles:     c.UnityMinFiles,
		UnityMeanMs:       c.UnityMeanMs,
		PimplMinIncluders: c.PimplMinIncluders,
		PimplMinMs:        c.PimplMinMs,
	}

	if len(c.EnabledRules) > 0 {
		opts.EnabledRules = make(map[suggest.SuggestionType]bool, len(c.EnabledRules))
		for _, r := range c.EnabledRules {
			opts.EnabledRules[suggest.SuggestionType(r)] = true
		}
	}

	return opts
}
