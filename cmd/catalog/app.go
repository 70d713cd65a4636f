package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"finitefield.org/catalog/internal/catalog/config"
	"finitefield.org/catalog/internal/catalog/i18n"
	"finitefield.org/catalog/internal/catalog/products"
	"finitefield.org/catalog/internal/catalog/source"
	"finitefield.org/catalog/internal/catalog/store"
	"finitefield.org/catalog/internal/catalog/view"
)

// catalogApp bundles the components built from configuration.
type catalogApp struct {
	cfg       config.Config
	logger    *zap.Logger
	localizer *i18n.Localizer
	source    products.Source
	store     *store.Store
}

func newCatalogApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalogApp, error) {
	dict := i18n.Default
	if cfg.Catalog.LocalesFile != "" {
		overlay, err := i18n.LoadOverlay(cfg.Catalog.LocalesFile)
		if err != nil {
			return nil, err
		}
		dict = dict.Merge(overlay)
	}
	localizer, err := i18n.New(dict, cfg.UI.DefaultLanguage)
	if err != nil {
		return nil, err
	}

	src, err := source.Parse(ctx, cfg.Catalog.Source, source.Options{})
	if err != nil {
		return nil, err
	}
	loader := products.NewLoader(src, products.WithTimeout(cfg.Catalog.FetchTimeout))
	st := store.New(loader, src.Name(), store.WithLogger(logger.Named("store")))

	return &catalogApp{
		cfg:       cfg,
		logger:    logger,
		localizer: localizer,
		source:    src,
		store:     st,
	}, nil
}

// Close releases remote source clients.
func (a *catalogApp) Close() error {
	if closer, ok := a.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// languageLinks lists the selector entries, href built per language.
func (a *catalogApp) languageLinks(href func(lang string) string) []view.LanguageLink {
	langs := a.localizer.Supported()
	links := make([]view.LanguageLink, 0, len(langs))
	for _, lang := range langs {
		links = append(links, view.LanguageLink{
			Code: lang,
			Name: a.localizer.T(lang, i18n.KeyLanguageName),
			Href: href(lang),
		})
	}
	return links
}

// shell returns the configured host page, or the default one built from opts.
func (a *catalogApp) shell(opts view.ShellOptions) (*html.Node, error) {
	if a.cfg.UI.ShellFile != "" {
		return view.LoadShell(a.cfg.UI.ShellFile)
	}
	opts.ScrollTopThreshold = a.cfg.UI.ScrollTopThreshold
	opts.HeaderOffset = a.cfg.UI.HeaderOffset
	return view.Shell(opts)
}

func (a *catalogApp) intro() ([]*html.Node, error) {
	if a.cfg.UI.IntroFile == "" {
		return nil, nil
	}
	intro, err := view.LoadIntro(a.cfg.UI.IntroFile)
	if err != nil {
		return nil, err
	}
	return intro.Nodes()
}

func (a *catalogApp) renderer(shellOpts view.ShellOptions, pageSize int, moreURL string) (*view.Renderer, error) {
	shell, err := a.shell(shellOpts)
	if err != nil {
		return nil, err
	}
	intro, err := a.intro()
	if err != nil {
		return nil, err
	}
	r, err := view.NewRenderer(view.RendererOptions{
		Shell:       shell,
		Intro:       intro,
		Localizer:   a.localizer,
		PageSize:    pageSize,
		ScrollDelay: a.cfg.UI.ScrollDelay,
		ImageBase:   "images",
		MoreURL:     moreURL,
	})
	if err != nil {
		var missing *view.MissingElementError
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("host page %q: %w", a.cfg.UI.ShellFile, err)
		}
		return nil, err
	}
	return r, nil
}
