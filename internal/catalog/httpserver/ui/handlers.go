package ui

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	custommw "finitefield.org/catalog/internal/catalog/httpserver/middleware"
	"finitefield.org/catalog/internal/catalog/observability"
	"finitefield.org/catalog/internal/catalog/store"
	"finitefield.org/catalog/internal/catalog/view"
)

const placeholderImage = "placeholder.jpg"

// Catalog exposes the current catalog snapshot.
type Catalog interface {
	Current() (*store.Snapshot, bool)
}

// Dependencies collects the collaborators of the UI handlers.
type Dependencies struct {
	Catalog   Catalog
	Renderer  *view.Renderer
	ImagesDir string
}

// Handlers exposes HTTP handlers for the catalog page and its fragments.
type Handlers struct {
	catalog  Catalog
	renderer *view.Renderer
	images   fs.FS
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = store.NewStatic(nil)
	}
	h := &Handlers{catalog: catalog, renderer: deps.Renderer}
	if dir := strings.TrimSpace(deps.ImagesDir); dir != "" {
		h.images = os.DirFS(dir)
	}
	return h
}

// Index renders the full catalog page. Before the first successful load it
// serves the page with empty containers.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	state := requestState(r)
	snap, ok := h.catalog.Current()
	if !ok {
		observability.FromContext(r.Context()).Warn("catalog not loaded; serving empty page")
		render(w, r, http.StatusOK, h.renderer.EmptyDocument(state))
		return
	}

	etag := fmt.Sprintf(`W/"%s-%s"`, snap.Version, state.Lang)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	doc, err := h.renderer.Document(snap.Products, state)
	if err != nil {
		observability.FromContext(r.Context()).Error("render catalog page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, doc)
}

// Products renders the search results fragment.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, h.renderer.Results(snap.Products, requestState(r))...)
}

// More renders the next page of results for infinite scroll.
func (h *Handlers) More(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, h.renderer.More(snap.Products, requestState(r))...)
}

// Image serves product images, falling back to the placeholder when the
// requested file does not exist.
func (h *Handlers) Image(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		http.NotFound(w, r)
		return
	}
	name := path.Clean(strings.TrimPrefix(chi.URLParam(r, "*"), "/"))
	if name == "." || !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}
	if info, err := fs.Stat(h.images, name); err != nil || info.IsDir() {
		name = placeholderImage
	}
	http.ServeFileFS(w, r, h.images, name)
}

type healthResponse struct {
	Status   string     `json:"status"`
	Version  string     `json:"version,omitempty"`
	Source   string     `json:"source,omitempty"`
	Products int        `json:"products"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
}

// Healthz reports whether a catalog snapshot is being served.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "loading"}
	status := http.StatusServiceUnavailable
	if snap, ok := h.catalog.Current(); ok {
		loadedAt := snap.LoadedAt
		resp = healthResponse{
			Status:   "ok",
			Version:  snap.Version,
			Source:   snap.Source,
			Products: len(snap.Products),
			LoadedAt: &loadedAt,
		}
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		observability.FromContext(r.Context()).Warn("write health response", zap.Error(err))
	}
}

func (h *Handlers) snapshot(w http.ResponseWriter, r *http.Request) (*store.Snapshot, bool) {
	snap, ok := h.catalog.Current()
	if !ok {
		observability.FromContext(r.Context()).Warn("fragment requested before load", zap.Error(store.ErrNotLoaded))
		http.Error(w, store.ErrNotLoaded.Error(), http.StatusServiceUnavailable)
		return nil, false
	}
	return snap, true
}

func requestState(r *http.Request) view.State {
	state := view.ParseState(r.URL.Query())
	state.Lang = custommw.LanguageFromContext(r.Context())
	return state
}

func render(w http.ResponseWriter, r *http.Request, status int, nodes ...*html.Node) {
	templ.Handler(view.Component(nodes...), templ.WithStatus(status)).ServeHTTP(w, r)
}
