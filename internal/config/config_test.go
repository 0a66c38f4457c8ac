package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, SourceExiftool, cfg.Metadata.Source)
	assert.Equal(t, FormatCSV, cfg.Audit.Format)
	assert.Equal(t, SkipRuleUnderscore, cfg.Rename.SkipRule)
	assert.True(t, cfg.IsSupportedExtension(".JPG"))
	assert.True(t, cfg.IsSupportedExtension("mov"))
	assert.False(t, cfg.IsSupportedExtension(".txt"))
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"metadata source", func(c *Config) { c.Metadata.Source = "magic" }},
		{"audit format", func(c *Config) { c.Audit.Format = "ods" }},
		{"skip rule", func(c *Config) { c.Rename.SkipRule = "never" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"empty output", func(c *Config) { c.Audit.OutputPath = "" }},
		{"no extensions", func(c *Config) { c.SupportedExtensions = []string{" ", "."} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SupportedExtensions = []string{".HEIC", " Mp4 ", ""}
	cfg.Metadata.Source = "NATIVE"
	cfg.Audit.Format = "XLSX"
	cfg.Directory = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"heic", "mp4"}, cfg.SupportedExtensions)
	assert.Equal(t, SourceNative, cfg.Metadata.Source)
	assert.Equal(t, FormatXLSX, cfg.Audit.Format)
	assert.Equal(t, ".", cfg.Directory)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `directory: /photos
supported_extensions: [jpg, mov]
metadata:
  source: auto
  exiftool_path: /opt/exiftool/exiftool
audit:
  output_path: /tmp/audit.xlsx
  format: xlsx
  include_matching: true
rename:
  dry_run: true
  skip_rule: filename_date
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/photos", cfg.Directory)
	assert.Equal(t, []string{"jpg", "mov"}, cfg.SupportedExtensions)
	assert.Equal(t, SourceAuto, cfg.Metadata.Source)
	assert.Equal(t, "/opt/exiftool/exiftool", cfg.Metadata.ExiftoolPath)
	assert.Equal(t, "/tmp/audit.xlsx", cfg.Audit.OutputPath)
	assert.Equal(t, FormatXLSX, cfg.Audit.Format)
	assert.True(t, cfg.Audit.IncludeMatching)
	assert.True(t, cfg.Rename.DryRun)
	assert.Equal(t, SkipRuleFilenameDate, cfg.Rename.SkipRule)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Logging.MaxSize)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metadata:\n  source: sorcery\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("PHOTO_RENAMER_METADATA_SOURCE", "native")
	t.Setenv("PHOTO_RENAMER_RENAME_SKIP_RULE", "filename_date")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("directory: /photos\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SourceNative, cfg.Metadata.Source)
	assert.Equal(t, SkipRuleFilenameDate, cfg.Rename.SkipRule)
	assert.Equal(t, DefaultConfig().SupportedExtensions, cfg.SupportedExtensions)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
