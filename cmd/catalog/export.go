package main

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/catalog/internal/catalog/view"
	"finitefield.org/catalog/public"
)

const exportAssetBase = "public/static"

type exportOptions struct {
	out   string
	langs []string
}

func newExportCmd(c *cli) *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a static site",
		Long: `Loads the catalog once and writes one page per language: index.html in
the default language and index.<lang>.html for the others. Static assets
and the images directory are copied next to the pages. Search runs in the
browser; the whole list is rendered at once.`,
		Example: `  catalog export --out dist
  catalog export --out dist --lang de --lang ru`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), c, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "dist", "output directory")
	cmd.Flags().StringSliceVar(&opts.langs, "lang", nil, "languages to export (default: all)")
	return cmd
}

func runExport(ctx context.Context, c *cli, opts exportOptions) error {
	logger := c.logger
	app, err := newCatalogApp(ctx, c.cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	fallback := app.localizer.Fallback()
	pageName := func(lang string) string {
		if lang == fallback {
			return "index.html"
		}
		return "index." + lang + ".html"
	}

	renderer, err := app.renderer(view.ShellOptions{
		AssetBase: exportAssetBase,
		Languages: app.languageLinks(pageName),
	}, 0, "")
	if err != nil {
		return err
	}

	if err := app.store.Reload(ctx); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	snap, _ := app.store.Current()

	langs, err := exportLanguages(app.localizer, opts.langs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("export: create output: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, lang := range langs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := renderer.Document(snap.Products, view.State{Lang: lang, Page: 1})
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := view.Render(&buf, doc); err != nil {
				return err
			}
			target := filepath.Join(opts.out, pageName(lang))
			if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("export: write %s: %w", target, err)
			}
			logger.Info("page exported", zap.String("lang", lang), zap.String("path", target))
			return nil
		})
	}
	g.Go(func() error {
		static, err := public.StaticFS()
		if err != nil {
			return err
		}
		return copyFS(filepath.Join(opts.out, filepath.FromSlash(exportAssetBase)), static)
	})
	if dir := c.cfg.Catalog.ImagesDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			g.Go(func() error {
				return copyFS(filepath.Join(opts.out, "images"), os.DirFS(dir))
			})
		} else {
			logger.Warn("images directory not found; skipping", zap.String("dir", dir))
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("catalog exported",
		zap.String("out", opts.out),
		zap.String("version", snap.Version),
		zap.Int("products", len(snap.Products)),
	)
	return nil
}

type languageSet interface {
	Supported() []string
	Supports(code string) bool
	Language(code string) string
}

// exportLanguages validates the requested languages; none means all.
func exportLanguages(set languageSet, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return set.Supported(), nil
	}
	out := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, raw := range requested {
		if !set.Supports(raw) {
			return nil, fmt.Errorf("export: unsupported language %q", raw)
		}
		lang := set.Language(raw)
		if !seen[lang] {
			seen[lang] = true
			out = append(out, lang)
		}
	}
	return out, nil
}

func copyFS(dst string, src fs.FS) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
