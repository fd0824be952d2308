// Package cli implements the keycount command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/keycount/config"
	"github.com/yoanbernabeu/keycount/history"
	"github.com/yoanbernabeu/keycount/keywords"
	"github.com/yoanbernabeu/keycount/logger"
	"github.com/yoanbernabeu/keycount/records"
	"github.com/yoanbernabeu/keycount/scanner"
	"github.com/yoanbernabeu/keycount/store"
)

// Version is set at build time.
var Version = "dev"

var (
	configPath string
	dataDir    string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "keycount",
	Short: "Count language keywords across a source tree",
	Long: `keycount scans a project directory, counts occurrences of the Java
keyword vocabulary in every .java file (comments excluded) and keeps the
result as a per-project record that can be read back, refreshed or removed.

Records are flat keyword=count files named after the final segment of the
project path, stored under the configured dataSourcePath.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFileName, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Record prefix, overrides dataSourcePath (keep the trailing separator for a directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

// GetRootCmd returns the root command, used by the docs generator.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// session is what every command needs, built once per invocation.
type session struct {
	cfg     *config.Config
	backend store.Backend
	records *records.Store
}

func (s *session) Close() error {
	return s.backend.Close()
}

// loadConfig resolves the config file and applies flag overrides. A missing
// or invalid file falls back to the defaults; the fallback is logged so it
// is never silent.
func loadConfig(cmd *cobra.Command) *config.Config {
	resolved := config.Resolve(configPath)
	cfg := resolved.Config
	if cmd.Flags().Changed("data-dir") {
		cfg.DataSourcePath = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	switch {
	case resolved.NotFound():
		slog.Debug("no config file, using defaults", "path", resolved.Source)
	case resolved.Defaulted:
		slog.Warn("config file unusable, using defaults", "path", resolved.Source, "error", resolved.Err)
	}
	return cfg
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg := loadConfig(cmd)

	gi, err := scanner.LoadIgnoreFile(cfg.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore file: %w", err)
	}
	sc := scanner.New(
		keywords.NewCounter(keywords.Java()),
		cfg.Extension,
		scanner.WithIgnore(gi),
		scanner.WithLogger(logger.WithComponent("scanner")),
	)

	backend, err := store.New(cfg.Backend, cfg.DataSourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store (backend=%s): %w", cfg.Backend, err)
	}

	opts := []records.Option{records.WithLogger(logger.WithComponent("records"))}
	if cfg.History.Enabled {
		opts = append(opts, records.WithSink(history.NewRecorder(cfg.DataDir())))
	}

	return &session{
		cfg:     cfg,
		backend: backend,
		records: records.New(backend, sc, opts...),
	}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the keycount version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "keycount %s\n", Version)
	},
}

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a default .keycount.yaml (or the file named by --config) with
every setting spelled out. Existing files are kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		cfg := config.DefaultConfig()
		if cmd.Flags().Changed("data-dir") {
			cfg.DataSourcePath = dataDir
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(versionCmd, initCmd)
}
