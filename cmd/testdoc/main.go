// Package main provides the CLI entry point for testdoc.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	_ "time/tzdata" // submission timestamps use a named zone

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Anvaishxx0/Testing-Documentation/internal/config"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/output"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/remote"
)

var (
	configPath   string
	workbookPath string
	verbose      bool
	noColor      bool
	jsonOut      bool
	pretty       bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "testdoc",
	Short: "Record test results into a shared tracking workbook",
	Long: `testdoc records Pass/Fail/Hold results with comments and screenshots into
an Excel tracking workbook, rebuilds its Summary sheet, and pushes the
workbook to a GitHub repository.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if workbookPath != "" {
			cfg.Workbook = workbookPath
		}

		logCfg := zap.NewProductionConfig()
		if cfg.Logging.Development {
			logCfg = zap.NewDevelopmentConfig()
		}
		if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			logCfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		if verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if noColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath, "Config file path")
	pf.StringVarP(&workbookPath, "workbook", "w", "", "Workbook path (overrides config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&jsonOut, "json", false, "Print JSON instead of tables")
	pf.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(submitCmd, summaryCmd, tasksCmd, testersCmd, inspectCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newTracker builds a tracker from the loaded config. Remote sync is
// disabled when sync is false.
func newTracker(sync bool) *testdoc.Tracker {
	opts := []testdoc.TrackerOption{testdoc.WithLogger(logger)}
	if sync {
		if client := cfg.RemoteClient(remote.WithLogger(logger)); client != nil {
			opts = append(opts, testdoc.WithStore(client))
		}
	}
	return testdoc.NewTracker(cfg.Options(), opts...)
}

// loadWorkbook reads the workbook from the remote store when the tracker has
// one, otherwise from the configured path.
func loadWorkbook(ctx context.Context, tr *testdoc.Tracker) ([]byte, string, error) {
	if tr.HasStore() {
		file, err := tr.Load(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("fetch remote workbook: %w", err)
		}
		return file.Content, filepath.Base(cfg.Remote.Path), nil
	}

	data, err := os.ReadFile(cfg.Workbook)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("%w: %s", testdoc.ErrWorkbookNotFound, cfg.Workbook)
	}
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(cfg.Workbook), nil
}

// printJSON writes v to stdout honoring --pretty.
func printJSON(v interface{}) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
