package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/mtempl/internal/cache"
	"github.com/conneroisu/mtempl/internal/catalog"
	"github.com/conneroisu/mtempl/internal/config"
	"github.com/conneroisu/mtempl/internal/server"
	"github.com/conneroisu/mtempl/internal/watcher"
)

var serveNoWatch bool

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the template playground server",
	Long: `Start the playground server:

  POST /api/render     bind and render a template, returning the event JSON
  GET  /api/templates  list loaded catalog templates with parse status
  GET  /ws             websocket pushing catalog-reload notifications
  GET  /healthz        cache statistics

Catalog paths are watched for changes and reloaded live unless --no-watch
is given.

Examples:
  mtempl serve
  mtempl serve --port 3000 --path templates/`,
	RunE: runServeCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addCatalogFlags(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8620, "port to serve on")
	serveCmd.Flags().String("host", "localhost", "host to bind to")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "disable catalog file watching")
	bindFlag(serveCmd.Flags(), "server.port", "port")
	bindFlag(serveCmd.Flags(), "server.host", "host")
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cache.NewStore()
	var cat *catalog.Catalog
	if hasCatalogPaths(cfg) {
		cat, err = catalog.LoadPaths(cfg.Catalog.Paths, cfg.Catalog.ExcludePatterns, store)
		if err != nil {
			return err
		}
	}

	srv := server.New(cfg, store, cat, logger)

	if cat != nil && !serveNoWatch {
		w, err := watcher.New(300 * time.Millisecond)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer w.Stop()
		w.AddFilter(catalog.IsCatalogFile)
		w.AddHandler(func([]watcher.ChangeEvent) error {
			return srv.ReloadCatalog()
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
	}

	return srv.Start(ctx)
}

// hasCatalogPaths reports whether any configured catalog path exists.
// serve stays useful for ad hoc rendering without catalogs on disk.
func hasCatalogPaths(cfg *config.Config) bool {
	if viper.IsSet("catalog.paths") {
		return true
	}
	for _, path := range cfg.Catalog.Paths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
