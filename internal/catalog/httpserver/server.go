package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommw "finitefield.org/catalog/internal/catalog/httpserver/middleware"
	"finitefield.org/catalog/internal/catalog/httpserver/ui"
	"finitefield.org/catalog/internal/catalog/observability"
	"finitefield.org/catalog/internal/catalog/view"
	"finitefield.org/catalog/public"
)

// Route paths shared with the rendered page.
const (
	ProductsPath = "/products"
	MorePath     = "/products/more"
	ImagesPath   = "/images"
	StaticPath   = "/public/static"
)

// Config holds runtime options for the catalog HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Catalog   ui.Catalog
	Renderer  *view.Renderer
	ImagesDir string
	Logger    *zap.Logger
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(60 * time.Second))

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal("embed static", zap.Error(err))
	}
	router.Handle(StaticPath+"/*", http.StripPrefix(StaticPath+"/", http.FileServer(http.FS(staticContent))))

	handlers := ui.NewHandlers(ui.Dependencies{
		Catalog:   cfg.Catalog,
		Renderer:  cfg.Renderer,
		ImagesDir: cfg.ImagesDir,
	})
	router.Get("/healthz", handlers.Healthz)
	router.Get(ImagesPath+"/*", handlers.Image)

	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.Locale(cfg.Renderer.Localizer()))

		r.Get("/", handlers.Index)
		r.Group(func(r chi.Router) {
			r.Use(custommw.NoStore())
			RegisterFragment(r, ProductsPath, handlers.Products)
			RegisterFragment(r, MorePath, handlers.More)
		})
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  durationOr(cfg.IdleTimeout, 120*time.Second),
	}
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
