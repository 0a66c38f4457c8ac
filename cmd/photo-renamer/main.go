package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"photo-renamer/internal/config"
	"photo-renamer/internal/extractor"
	"photo-renamer/internal/logger"
	"photo-renamer/internal/reconciler"
	"photo-renamer/internal/report"
	"photo-renamer/internal/statistics"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	source       string
	exiftoolPath string
	dryRun       bool
	skipRule     string
	outputPath   string
	outputFormat string
	includeAll   bool
)

// rootCmd renames media files after their capture date.
var rootCmd = &cobra.Command{
	Use:   "photo-renamer [directory]",
	Short: "Rename photos and videos after the date they were taken",
	Long: `photo-renamer reads the capture date stored in photo and video metadata
(EXIF, QuickTime/MP4 atoms, or anything exiftool understands) and renames
each file in a directory to YYYYMMDD.ext. Files taken on the same day get
_1, _2, ... suffixes in directory order.

The directory is listed once and not descended into. Files whose metadata
cannot be read are logged and left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(args)
	},
}

// renameCmd is an explicit alias for the root action.
var renameCmd = &cobra.Command{
	Use:   "rename [directory]",
	Short: "Rename files after their capture date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(args)
	},
}

// auditCmd reports files whose name disagrees with their dates.
var auditCmd = &cobra.Command{
	Use:   "audit [directory]",
	Short: "Report files whose name does not match their capture or creation date",
	Long: `Audit compares the date at the start of each filename with the capture
date from metadata and with the filesystem creation date. Files matching
neither, and files without a readable capture date, are written to a
semicolon-separated CSV (or an XLSX workbook with the raw metadata).
Nothing is renamed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(args)
	},
}

// inspectCmd shows what the extractor sees for one file.
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show metadata date fields and the chosen capture date for a file",
	Long: `Inspect runs date extraction on a single file and prints every field
the metadata reader returned, the candidate dates and the chosen capture date.
This is useful for debugging date extraction issues.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "metadata source: exiftool, native or auto")
	rootCmd.PersistentFlags().StringVar(&exiftoolPath, "exiftool", "", "path to the exiftool binary")

	for _, cmd := range []*cobra.Command{rootCmd, renameCmd} {
		cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log planned renames without touching files")
		cmd.Flags().StringVar(&skipRule, "skip-rule", "", "when a file counts as already named: underscore or filename_date")
	}

	auditCmd.Flags().StringVarP(&outputPath, "output", "o", "", "report path")
	auditCmd.Flags().StringVar(&outputFormat, "format", "", "report format: csv or xlsx")
	auditCmd.Flags().BoolVar(&includeAll, "all", false, "include files whose name matches")

	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(inspectCmd)
}

// runRename executes rename mode.
func runRename(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	dateExtractor := buildExtractor(cfg, log)
	defer dateExtractor.Close()

	stats := statistics.NewStatistics()
	rec := reconciler.NewReconciler(cfg, log, stats, dateExtractor, os.Stdout)

	if _, err := rec.RunRename(); err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	if !quiet {
		fmt.Fprintln(os.Stderr, "\n"+stats.GetSummary())
		if len(stats.Errors) > 0 {
			fmt.Fprintln(os.Stderr, "\n"+stats.GetErrorSummary())
		}
	}
	return nil
}

// runAudit executes audit mode and writes the report.
func runAudit(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	dateExtractor := buildExtractor(cfg, log)
	defer dateExtractor.Close()

	stats := statistics.NewStatistics()
	rec := reconciler.NewReconciler(cfg, log, stats, dateExtractor, os.Stdout)

	results, err := rec.RunAudit()
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if err := report.Write(cfg.Audit.OutputPath, cfg.Audit.Format, results); err != nil {
		return fmt.Errorf("failed to write audit report: %w", err)
	}

	if !quiet {
		fmt.Printf("Audit report written to %s (%d rows)\n", cfg.Audit.OutputPath, len(results))
		fmt.Fprintln(os.Stderr, "\n"+stats.GetSummary())
	}
	return nil
}

// runInspect prints the extraction result for one file.
func runInspect(filePath string) error {
	if !fileExists(filePath) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyExtractorFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Discard()
	if verbose {
		log = logrus.New()
		log.SetLevel(logrus.DebugLevel)
	}
	dateExtractor := buildExtractor(cfg, log)
	defer dateExtractor.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	fmt.Printf("Inspecting %s (source: %s)\n", filePath, cfg.Metadata.Source)

	result, err := dateExtractor.Extract(filePath, ext)
	if err != nil {
		fmt.Printf("Error extracting metadata: %v\n", err)
		return nil
	}

	names := make([]string, 0, len(result.Fields))
	for name := range result.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\nFields (%s):\n", result.Reader)
	for _, name := range names {
		fmt.Printf("  %-28s %s\n", name, result.Fields[name])
	}
	fmt.Printf("\nCandidate dates: %s\n", strings.Join(result.AllDates, ", "))

	if !result.HasDate() {
		fmt.Println("No capture date found in metadata")
	} else {
		fmt.Printf("Chosen capture date: %s (from %s)\n", result.Chosen, result.ChosenField)
	}
	return nil
}

// loadConfig loads configuration and applies CLI overrides.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Directory = args[0]
	}
	applyExtractorFlags(cfg)
	if dryRun {
		cfg.Rename.DryRun = true
	}
	if skipRule != "" {
		cfg.Rename.SkipRule = skipRule
	}
	if outputPath != "" {
		cfg.Audit.OutputPath = outputPath
	}
	if outputFormat != "" {
		cfg.Audit.Format = outputFormat
	}
	if includeAll {
		cfg.Audit.IncludeMatching = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !dirExists(cfg.Directory) {
		return nil, fmt.Errorf("directory does not exist: %s", cfg.Directory)
	}

	return cfg, nil
}

func applyExtractorFlags(cfg *config.Config) {
	if source != "" {
		cfg.Metadata.Source = source
	}
	if exiftoolPath != "" {
		cfg.Metadata.ExiftoolPath = exiftoolPath
	}
}

// buildExtractor wires the readers the configured source needs. A missing
// exiftool does not stop the run: every file reports the failure instead.
func buildExtractor(cfg *config.Config, log *logrus.Logger) *extractor.Extractor {
	var readers extractor.Readers

	if cfg.Metadata.Source != config.SourceNative {
		reader, err := extractor.NewExiftoolReader(cfg.Metadata.ExiftoolPath)
		if err != nil {
			log.Warnf("exiftool unavailable, files needing it will be skipped: %v", err)
			readers.Exiftool = extractor.UnavailableReader("exiftool", err)
		} else {
			readers.Exiftool = reader
		}
	}
	if cfg.Metadata.Source != config.SourceExiftool {
		readers.Image = extractor.NewEXIFReader(log)
		readers.Video = extractor.NewMP4Reader()
	}

	return extractor.NewExtractor(log, cfg.Metadata.Source, readers)
}

// setupLogger configures and returns a logger.
func setupLogger(cfg *config.Config) *logrus.Logger {
	loggerCfg := logger.LoggerConfig{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		Console:    !quiet,
	}

	if verbose {
		loggerCfg.Level = "debug"
	}
	if quiet {
		loggerCfg.Level = "error"
	}

	log, err := logger.NewLogger(loggerCfg)
	if err != nil {
		log = logrus.New()
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// fileExists returns true if the given path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dirExists returns true if the given path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
