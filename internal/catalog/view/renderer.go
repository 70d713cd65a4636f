package view

import (
	"errors"
	"time"

	"golang.org/x/net/html"

	"finitefield.org/catalog/internal/catalog/i18n"
	"finitefield.org/catalog/internal/catalog/products"
)

// RendererOptions configures a Renderer.
type RendererOptions struct {
	// Shell is the host page. Each render works on a copy.
	Shell     *html.Node
	Intro     []*html.Node
	Localizer *i18n.Localizer
	// PageSize of zero renders the whole list at once.
	PageSize    int
	ScrollDelay time.Duration
	ImageBase   string
	MoreURL     string
}

// Renderer turns catalog rows into localized pages and fragments.
type Renderer struct {
	shell       *html.Node
	intro       []*html.Node
	localizer   *i18n.Localizer
	pageSize    int
	scrollDelay time.Duration
	imageBase   string
	moreURL     string
}

// NewRenderer validates the host page and returns a renderer.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	if opts.Shell == nil {
		return nil, errors.New("view: renderer requires a shell")
	}
	if opts.Localizer == nil {
		return nil, errors.New("view: renderer requires a localizer")
	}
	if err := Commit(Clone(opts.Shell), Fragments{}); err != nil {
		return nil, err
	}
	return &Renderer{
		shell:       opts.Shell,
		intro:       opts.Intro,
		localizer:   opts.Localizer,
		pageSize:    opts.PageSize,
		scrollDelay: opts.ScrollDelay,
		imageBase:   opts.ImageBase,
		moreURL:     opts.MoreURL,
	}, nil
}

// Localizer returns the localizer used for every render.
func (r *Renderer) Localizer() *i18n.Localizer { return r.localizer }

// Document renders the full page with the first page of results for s.
func (r *Renderer) Document(items []products.Product, s State) (*html.Node, error) {
	s = s.WithTerm(s.Term)
	doc := r.base(s)
	if err := Commit(doc, Build(r.data(items, s))); err != nil {
		return nil, err
	}
	r.localizer.Apply(doc, s.Lang)
	return doc, nil
}

// EmptyDocument renders the host page with empty containers. It is served
// while no catalog has been loaded.
func (r *Renderer) EmptyDocument(s State) *html.Node {
	doc := r.base(s)
	r.localizer.Apply(doc, s.Lang)
	return doc
}

// Results renders a search response: the first page of matching sections
// plus out-of-band sidebar updates.
func (r *Renderer) Results(items []products.Product, s State) []*html.Node {
	s = s.WithTerm(s.Term)
	data := r.data(items, s)
	nodes := append(ListItems(data),
		OutOfBand(SidebarID, SidebarLinks(data.Groups)),
		OutOfBand(SidebarMobileID, SidebarLinks(data.Groups)),
	)
	return r.localize(nodes, s.Lang)
}

// More renders page s.Page of the results without the sidebar.
func (r *Renderer) More(items []products.Product, s State) []*html.Node {
	data := r.data(items, s)
	if data.Page.Total == 0 {
		return nil
	}
	return r.localize(ListItems(data), s.Lang)
}

func (r *Renderer) base(s State) *html.Node {
	doc := Clone(r.shell)
	if len(r.intro) > 0 {
		intro := make([]*html.Node, 0, len(r.intro))
		for _, n := range r.intro {
			intro = append(intro, Clone(n))
		}
		CommitIntro(doc, intro)
	}
	if s.Term != "" {
		if search := FindByID(doc, SearchID); search != nil {
			setAttr(search, "value", s.Term)
		}
	}
	return doc
}

func (r *Renderer) data(items []products.Product, s State) Data {
	groups := products.Categorize(products.Filter(items, s.Term))
	return Data{
		Page:        products.Paginate(groups, s.Page, r.pageSize),
		Groups:      groups,
		State:       s,
		MoreURL:     r.moreURL,
		ScrollDelay: r.scrollDelay,
		ImageBase:   r.imageBase,
	}
}

func (r *Renderer) localize(nodes []*html.Node, lang string) []*html.Node {
	for _, n := range nodes {
		r.localizer.Apply(n, lang)
	}
	return nodes
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
