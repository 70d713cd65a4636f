package testutil

import (
	"net/http/httptest"
	"testing"

	"finitefield.org/catalog/internal/catalog/httpserver"
	"finitefield.org/catalog/internal/catalog/httpserver/ui"
	"finitefield.org/catalog/internal/catalog/i18n"
	"finitefield.org/catalog/internal/catalog/products"
	"finitefield.org/catalog/internal/catalog/store"
	"finitefield.org/catalog/internal/catalog/view"
)

type serverOptions struct {
	catalog   ui.Catalog
	pageSize  int
	imagesDir string
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverOptions)

// WithCatalog overrides the catalog served.
func WithCatalog(catalog ui.Catalog) ServerOption {
	return func(o *serverOptions) {
		o.catalog = catalog
	}
}

// WithProducts serves a static catalog of items.
func WithProducts(items []products.Product) ServerOption {
	return WithCatalog(store.NewStatic(items))
}

// WithPageSize enables infinite scroll with the given page size.
func WithPageSize(size int) ServerOption {
	return func(o *serverOptions) {
		o.pageSize = size
	}
}

// WithImagesDir sets the directory served under /images.
func WithImagesDir(dir string) ServerOption {
	return func(o *serverOptions) {
		o.imagesDir = dir
	}
}

// NewServer constructs an httptest server running the catalog HTTP stack with the default shell.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	options := serverOptions{catalog: store.NewStatic(nil)}
	for _, opt := range opts {
		opt(&options)
	}

	localizer, err := i18n.New(i18n.Default, "de")
	if err != nil {
		t.Fatalf("localizer: %v", err)
	}
	shell, err := view.Shell(view.ShellOptions{
		AssetBase:          httpserver.StaticPath,
		SearchURL:          httpserver.ProductsPath,
		ScrollTopThreshold: 300,
		HeaderOffset:       70,
		Languages: []view.LanguageLink{
			{Code: "de", Name: "Deutsch", Href: "?lang=de"},
			{Code: "ru", Name: "Русский", Href: "?lang=ru"},
			{Code: "en", Name: "English", Href: "?lang=en"},
		},
	})
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	renderer, err := view.NewRenderer(view.RendererOptions{
		Shell:     shell,
		Localizer: localizer,
		PageSize:  options.pageSize,
		ImageBase: "images",
		MoreURL:   httpserver.MorePath,
	})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	srv := httpserver.New(httpserver.Config{
		Address:   ":0",
		Catalog:   options.catalog,
		Renderer:  renderer,
		ImagesDir: options.imagesDir,
	})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
