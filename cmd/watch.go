package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/mtempl/internal/cache"
	"github.com/conneroisu/mtempl/internal/catalog"
	"github.com/conneroisu/mtempl/internal/config"
	"github.com/conneroisu/mtempl/internal/logging"
	"github.com/conneroisu/mtempl/internal/watcher"
)

var watchDebounce time.Duration

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch catalog paths and revalidate templates on change",
	Long: `Watch the configured catalog paths and revalidate every template when
a catalog file changes. Grammar errors are reported as they appear without
stopping the watch.

Examples:
  mtempl watch
  mtempl watch --path templates/ --debounce 500ms`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addCatalogFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "delay for grouping rapid changes")
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg).WithComponent("watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cache.NewStore()
	revalidate := func() {
		cat, err := catalog.LoadPaths(cfg.Catalog.Paths, cfg.Catalog.ExcludePatterns, store)
		if err != nil {
			logger.Error(ctx, err, "catalog load failed")
			return
		}
		invalid := cat.Invalid().Errors()
		logger.Info(ctx, "catalog validated", "templates", cat.Len(), "invalid", len(invalid))
		for _, ve := range invalid {
			logger.Warn(ctx, ve.Err, "invalid template", "name", ve.Name, "file", ve.File)
		}
	}
	revalidate()

	w, err := watcher.New(watchDebounce)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Stop()

	w.AddFilter(catalog.IsCatalogFile)
	w.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, ev := range events {
			logger.Debug(ctx, "catalog change", "path", ev.Path, "type", ev.Type.String())
		}
		revalidate()
		return nil
	})
	w.OnError(func(err error) {
		logger.Warn(ctx, err, "watch error")
	})
	for _, path := range cfg.Catalog.Paths {
		if err := w.AddPath(path); err != nil {
			return err
		}
	}

	w.Start(ctx)
	logger.Info(ctx, "watching catalog paths", "paths", cfg.Catalog.Paths)
	<-ctx.Done()
	return nil
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) logging.Logger {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	return logging.NewLogger(logCfg)
}
