package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Metadata sources understood by the extractor.
const (
	SourceExiftool = "exiftool"
	SourceNative   = "native"
	SourceAuto     = "auto"
)

// Audit output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Rules deciding whether a file already carries its target name.
const (
	SkipRuleUnderscore   = "underscore"
	SkipRuleFilenameDate = "filename_date"
)

// Config represents the main configuration structure
type Config struct {
	Directory           string         `mapstructure:"directory"`
	SupportedExtensions []string       `mapstructure:"supported_extensions"`
	Metadata            MetadataConfig `mapstructure:"metadata"`
	Audit               AuditConfig    `mapstructure:"audit"`
	Rename              RenameConfig   `mapstructure:"rename"`
	Logging             LoggingConfig  `mapstructure:"logging"`
}

// MetadataConfig selects how capture dates are read from files
type MetadataConfig struct {
	Source       string `mapstructure:"source"`
	ExiftoolPath string `mapstructure:"exiftool_path"`
}

// AuditConfig contains audit report settings
type AuditConfig struct {
	OutputPath      string `mapstructure:"output_path"`
	Format          string `mapstructure:"format"`
	IncludeMatching bool   `mapstructure:"include_matching"`
}

// RenameConfig contains rename mode settings
type RenameConfig struct {
	DryRun   bool   `mapstructure:"dry_run"`
	SkipRule string `mapstructure:"skip_rule"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Directory: ".",
		SupportedExtensions: []string{
			"jpg", "jpeg", "png", "heic", "mp4", "mov",
		},
		Metadata: MetadataConfig{
			Source:       SourceExiftool,
			ExiftoolPath: "", // resolved from $PATH
		},
		Audit: AuditConfig{
			OutputPath:      "check_photos.csv",
			Format:          FormatCSV,
			IncludeMatching: false,
		},
		Rename: RenameConfig{
			DryRun:   false,
			SkipRule: SkipRuleUnderscore,
		},
		Logging: LoggingConfig{
			Level:      "info",
			FilePath:   "photo-renamer.log",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches the default locations; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, config)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.photo-renamer")
		v.AddConfigPath("/etc/photo-renamer")
	}

	v.SetEnvPrefix("PHOTO_RENAMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// a configured list replaces the defaults instead of merging into them
	config.SupportedExtensions = nil

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate validates and normalizes the configuration.
// The directory is not checked here: a missing directory is reported by the run itself.
func (c *Config) Validate() error {
	c.Directory = expandPath(c.Directory)
	if c.Directory == "" {
		c.Directory = "."
	}

	c.SupportedExtensions = normalizeExtensions(c.SupportedExtensions)
	if len(c.SupportedExtensions) == 0 {
		return fmt.Errorf("supported_extensions must not be empty")
	}

	c.Metadata.Source = strings.ToLower(c.Metadata.Source)
	switch c.Metadata.Source {
	case SourceExiftool, SourceNative, SourceAuto:
	default:
		return fmt.Errorf("invalid metadata source: %s (valid: exiftool, native, auto)", c.Metadata.Source)
	}
	c.Metadata.ExiftoolPath = expandPath(c.Metadata.ExiftoolPath)

	c.Audit.Format = strings.ToLower(c.Audit.Format)
	switch c.Audit.Format {
	case FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("invalid audit format: %s (valid: csv, xlsx)", c.Audit.Format)
	}
	if c.Audit.OutputPath == "" {
		return fmt.Errorf("audit.output_path is required")
	}
	c.Audit.OutputPath = expandPath(c.Audit.OutputPath)

	switch c.Rename.SkipRule {
	case SkipRuleUnderscore, SkipRuleFilenameDate:
	default:
		return fmt.Errorf("invalid rename skip_rule: %s (valid: underscore, filename_date)", c.Rename.SkipRule)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}

// IsSupportedExtension reports whether ext (with or without the dot, any case) is processed.
func (c *Config) IsSupportedExtension(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, supported := range c.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Helper functions

// setDefaults registers every key so environment variables can override
// settings even when no config file exists.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("directory", c.Directory)
	v.SetDefault("supported_extensions", c.SupportedExtensions)
	v.SetDefault("metadata.source", c.Metadata.Source)
	v.SetDefault("metadata.exiftool_path", c.Metadata.ExiftoolPath)
	v.SetDefault("audit.output_path", c.Audit.OutputPath)
	v.SetDefault("audit.format", c.Audit.Format)
	v.SetDefault("audit.include_matching", c.Audit.IncludeMatching)
	v.SetDefault("rename.dry_run", c.Rename.DryRun)
	v.SetDefault("rename.skip_rule", c.Rename.SkipRule)
	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.file_path", c.Logging.FilePath)
	v.SetDefault("logging.max_size", c.Logging.MaxSize)
	v.SetDefault("logging.max_backups", c.Logging.MaxBackups)
	v.SetDefault("logging.max_age", c.Logging.MaxAge)
	v.SetDefault("logging.compress", c.Logging.Compress)
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}

	expanded := os.ExpandEnv(path)
	if strings.HasPrefix(expanded, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		expanded = filepath.Join(home, expanded[1:])
	}
	return expanded
}

func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" {
			continue
		}
		normalized = append(normalized, ext)
	}
	return normalized
}
