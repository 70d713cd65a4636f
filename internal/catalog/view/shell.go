package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// LanguageLink is one entry of the language selector.
type LanguageLink struct {
	Code string
	Name string
	Href string
}

// ShellOptions parameterises the default host page.
type ShellOptions struct {
	// AssetBase prefixes catalog.css and catalog.js.
	AssetBase string
	// SearchURL is the fragment endpoint of the search input. Empty leaves
	// searching to the static script (exported pages).
	SearchURL          string
	Languages          []LanguageLink
	ScrollTopThreshold int
	HeaderOffset       int
}

const shellSource = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title data-i18n="page.title"></title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
<link rel="stylesheet" href="{{ .AssetBase }}/catalog.css">
</head>
<body data-scroll-top-threshold="{{ .ScrollTopThreshold }}" data-header-offset="{{ .HeaderOffset }}">
<header id="catalog-header" class="sticky-top bg-white border-bottom">
<nav class="navbar container-fluid gap-2">
<button class="btn btn-outline-secondary d-md-none" type="button" data-bs-toggle="offcanvas" data-bs-target="#sidebar-offcanvas" data-i18n-aria-label="nav.categories">&#9776;</button>
<span class="navbar-brand" data-i18n="page.title"></span>
<input id="search" class="form-control flex-grow-1 w-auto" type="search" name="q" autocomplete="off" data-i18n-placeholder="search.placeholder"{{ if .SearchURL }} hx-get="{{ .SearchURL }}" hx-trigger="input changed delay:250ms, search" hx-target="#product-list" hx-swap="innerHTML" hx-indicator="#loading-spinner"{{ end }}>
<div class="dropdown">
<button id="language-button" class="btn btn-outline-secondary dropdown-toggle" type="button" data-bs-toggle="dropdown" aria-expanded="false"></button>
<ul class="dropdown-menu dropdown-menu-end">
{{- range .Languages }}
<li><a class="dropdown-item" href="{{ .Href }}" hreflang="{{ .Code }}">{{ .Name }}</a></li>
{{- end }}
</ul>
</div>
</nav>
</header>
<div class="container-fluid">
<div class="row">
<aside class="col-md-3 d-none d-md-block">
<h6 class="mt-3" data-i18n="nav.categories"></h6>
<nav id="category-sidebar" class="catalog-sidebar"></nav>
</aside>
<div id="sidebar-offcanvas" class="offcanvas offcanvas-start d-md-none" tabindex="-1">
<div class="offcanvas-header"><h6 class="offcanvas-title" data-i18n="nav.categories"></h6><button type="button" class="btn-close" data-bs-dismiss="offcanvas" data-i18n-aria-label="modal.close"></button></div>
<div class="offcanvas-body"><nav id="category-sidebar-mobile" class="catalog-sidebar"></nav></div>
</div>
<main class="col-md-9 py-3">
<section id="catalog-intro"></section>
<div id="product-list"></div>
<div id="loading-spinner" class="htmx-indicator text-center my-3" role="status">
<div class="spinner-border"></div>
<span class="visually-hidden" data-i18n="list.loading"></span>
</div>
</main>
</div>
</div>
<button id="scroll-top" class="btn btn-primary catalog-scroll-top" type="button" data-i18n-aria-label="scroll.top" hidden>&#8593;</button>
<div id="imageModal" class="modal fade" tabindex="-1" aria-hidden="true">
<div class="modal-dialog modal-dialog-centered modal-lg">
<div class="modal-content">
<div class="modal-header border-0"><button type="button" class="btn-close" data-bs-dismiss="modal" data-i18n-aria-label="modal.close"></button></div>
<div class="modal-body text-center"><img id="modalImage" class="img-fluid" src="" alt=""></div>
</div>
</div>
</div>
<script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<script src="{{ .AssetBase }}/catalog.js" defer></script>
</body>
</html>
`

var shellTemplate = template.Must(template.New("shell").Parse(shellSource))

// Shell builds the default host page.
func Shell(opts ShellOptions) (*html.Node, error) {
	opts.AssetBase = strings.TrimSuffix(opts.AssetBase, "/")
	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("view: execute shell template: %w", err)
	}
	return ParseShell(&buf)
}

// ParseShell parses a host page.
func ParseShell(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("view: parse shell: %w", err)
	}
	return doc, nil
}

// LoadShell parses the host page stored at path.
func LoadShell(path string) (*html.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("view: open shell: %w", err)
	}
	defer f.Close()
	return ParseShell(f)
}
