package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/catalog/internal/catalog/httpserver"
	"finitefield.org/catalog/internal/catalog/source"
	"finitefield.org/catalog/internal/catalog/store"
	"finitefield.org/catalog/internal/catalog/view"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Loads the catalog once and serves the page, search and infinite scroll
fragments, product images and static assets. With CATALOG_WATCH=true a
file source is reloaded whenever it changes; a failed reload keeps the
catalog that is being served.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), c)
		},
	}
}

func runServe(ctx context.Context, c *cli) error {
	logger := c.logger
	app, err := newCatalogApp(ctx, c.cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	renderer, err := app.renderer(view.ShellOptions{
		AssetBase: httpserver.StaticPath,
		SearchURL: httpserver.ProductsPath,
		Languages: app.languageLinks(func(lang string) string { return "?lang=" + lang }),
	}, c.cfg.UI.PageSize, httpserver.MorePath)
	if err != nil {
		return err
	}

	// A failed initial load is logged by the store; the page is served empty
	// until a reload succeeds.
	_ = app.store.Reload(ctx)

	srv := httpserver.New(httpserver.Config{
		Address:      c.cfg.Server.Addr,
		ReadTimeout:  c.cfg.Server.ReadTimeout,
		WriteTimeout: c.cfg.Server.WriteTimeout,
		IdleTimeout:  c.cfg.Server.IdleTimeout,
		Catalog:      app.store,
		Renderer:     renderer,
		ImagesDir:    c.cfg.Catalog.ImagesDir,
		Logger:       logger.Named("http"),
	})

	var watcher *store.Watcher
	if c.cfg.Catalog.Watch {
		file, ok := app.source.(*source.File)
		if !ok {
			logger.Warn("CATALOG_WATCH ignored for non-file source", zap.String("source", app.source.Name()))
		} else {
			watcher, err = store.NewWatcher(file.Path(), app.store, c.cfg.Catalog.WatchDebounce, logger.Named("watcher"))
			if err != nil {
				return err
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if watcher != nil {
		// A watch failure cancels gctx, which shuts the server down.
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	g.Go(func() error {
		logger.Info("catalog server listening", zap.String("addr", srv.Addr), zap.String("source", app.source.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		logger.Info("catalog server stopped")
		return nil
	})

	return g.Wait()
}
