package view

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"finitefield.org/catalog/internal/catalog/i18n"
	"finitefield.org/catalog/internal/catalog/products"
)

// Element ids of the host page contract.
const (
	ProductListID   = "product-list"
	SidebarID       = "category-sidebar"
	SidebarMobileID = "category-sidebar-mobile"
	SearchID        = "search"
	ScrollTopID     = "scroll-top"
	ModalID         = "imageModal"
	ModalImageID    = "modalImage"
	SpinnerID       = "loading-spinner"
	IntroID         = "catalog-intro"
	MoreID          = "catalog-more"
)

const (
	defaultImageBase   = "images"
	defaultPlaceholder = "placeholder.jpg"
)

// Data is the input of Build.
type Data struct {
	// Page is the page of the grouped sequence rendered into the list.
	Page products.Page
	// Groups feeds the sidebar. It is usually the full filtered grouping so
	// the sidebar lists every category, not only those on the current page.
	Groups []products.Group
	State  State
	// MoreURL is the endpoint the infinite scroll sentinel requests. Empty
	// disables the sentinel.
	MoreURL     string
	ScrollDelay time.Duration
	// ImageBase is the relative path images are served under.
	ImageBase string
}

// Fragments holds the markup for each container of the host page.
type Fragments struct {
	ProductList   []*html.Node
	Sidebar       []*html.Node
	SidebarMobile []*html.Node
}

// Build renders the product list, the sidebar and the scroll sentinel.
// Build is pure: identical input yields identical markup.
func Build(data Data) Fragments {
	return Fragments{
		ProductList:   ListItems(data),
		Sidebar:       []*html.Node{SidebarLinks(data.Groups)},
		SidebarMobile: []*html.Node{SidebarLinks(data.Groups)},
	}
}

// ListItems renders the accordion sections of data.Page followed by the
// sentinel when more pages exist. An empty catalog yields the empty-state
// label only.
func ListItems(data Data) []*html.Node {
	if data.Page.Total == 0 {
		return []*html.Node{el("p", []html.Attribute{
			attr("class", "text-muted catalog-empty"),
			attr("data-i18n", i18n.KeyEmpty),
		})}
	}
	base := data.ImageBase
	if base == "" {
		base = defaultImageBase
	}
	out := make([]*html.Node, 0, len(data.Page.Sections)+1)
	for _, section := range data.Page.Sections {
		out = append(out, accordionSection(section, data.Page.Number, base))
	}
	if sentinel := Sentinel(data); sentinel != nil {
		out = append(out, sentinel)
	}
	return out
}

// SectionID is the element id of a category section. Sections continued
// from an earlier page get a page suffix so ids stay unique.
func SectionID(section products.Section, page int) string {
	id := "category-" + strconv.Itoa(section.Index)
	if section.Continued {
		id += "-p" + strconv.Itoa(page)
	}
	return id
}

func accordionSection(section products.Section, page int, imageBase string) *html.Node {
	id := SectionID(section, page)
	accordionID := "accordion-" + id
	headingID := "heading-" + id
	collapseID := "collapse-" + id

	title := el("button", []html.Attribute{
		attr("class", "accordion-button"),
		attr("type", "button"),
		attr("data-bs-toggle", "collapse"),
		attr("data-bs-target", "#"+collapseID),
		attr("aria-expanded", "true"),
		attr("aria-controls", collapseID),
	}, text(section.Name))
	if section.Continued {
		title.AppendChild(text(" "))
		title.AppendChild(el("small", []html.Attribute{
			attr("class", "text-muted ms-2"),
			attr("data-i18n", i18n.KeyContinued),
		}))
	}

	body := el("div", []html.Attribute{attr("class", "accordion-body")})
	for _, p := range section.Products {
		body.AppendChild(Card(p, imageBase))
	}

	return el("div", []html.Attribute{
		attr("class", "accordion mb-3"),
		attr("id", accordionID),
		attr("data-category", section.Name),
	},
		el("div", []html.Attribute{attr("class", "accordion-item")},
			el("h2", []html.Attribute{
				attr("class", "accordion-header"),
				attr("id", headingID),
			}, title),
			el("div", []html.Attribute{
				attr("id", collapseID),
				attr("class", "accordion-collapse collapse show"),
				attr("aria-labelledby", headingID),
				attr("data-bs-parent", "#"+accordionID),
			}, body),
		),
	)
}

// Card renders one product. Labels are left empty for the localizer.
func Card(p products.Product, imageBase string) *html.Node {
	if imageBase == "" {
		imageBase = defaultImageBase
	}
	base := strings.TrimSuffix(imageBase, "/")
	src := base + "/" + url.PathEscape(p.ImageID) + ".jpg"

	image := el("img", []html.Attribute{
		attr("src", src),
		attr("class", "img-fluid product-image"),
		attr("alt", p.NameDE),
		attr("loading", "lazy"),
		attr("data-fallback", base+"/"+defaultPlaceholder),
		attr("data-bs-toggle", "modal"),
		attr("data-bs-target", "#"+ModalID),
	})

	return el("div", []html.Attribute{
		attr("class", "row mb-3 border p-2 product-card"),
		attr("data-name-de", strings.ToLower(p.NameDE)),
		attr("data-name-ru", strings.ToLower(p.NameRU)),
	},
		el("div", []html.Attribute{attr("class", "col-md-4")}, image),
		el("div", []html.Attribute{attr("class", "col-md-6")},
			el("h5", nil, text(p.NameDE)),
			el("p", nil, text(p.NameRU)),
			labelled(i18n.KeyWeight, p.NetWeight),
			labelled(i18n.KeyProtein100g, p.ProteinPer100g+"g"),
			labelled(i18n.KeyProteinUnit, p.ProteinPerUnit+"g"),
		),
		el("div", []html.Attribute{attr("class", "col-md-2")},
			el("p", []html.Attribute{attr("class", "text-end product-price")},
				label(i18n.KeyPrice), text(": €"+p.Price)),
		),
	)
}

func labelled(key, value string) *html.Node {
	return el("p", nil, label(key), text(": "+value))
}

// SidebarLinks renders one navigation link per group, targeting the
// group's first section.
func SidebarLinks(groups []products.Group) *html.Node {
	list := el("ul", []html.Attribute{attr("class", "nav flex-column")})
	for i, g := range groups {
		target := "#accordion-category-" + strconv.Itoa(i)
		list.AppendChild(el("li", []html.Attribute{attr("class", "nav-item")},
			el("a", []html.Attribute{
				attr("class", "nav-link sidebar-link"),
				attr("href", target),
				attr("data-scroll-target", target),
			}, text(g.Name)),
		))
	}
	return list
}

// Sentinel renders the element that loads the next page once revealed.
// It returns nil on the last page or when no MoreURL is configured.
func Sentinel(data Data) *html.Node {
	if !data.Page.HasMore || data.MoreURL == "" {
		return nil
	}
	next := data.State
	next.Page = data.Page.Number
	next = next.Next()
	if next.Page <= data.Page.Number {
		return nil
	}
	href := data.MoreURL
	if q := next.Values().Encode(); q != "" {
		href += "?" + q
	}
	trigger := "revealed"
	if data.ScrollDelay > 0 {
		trigger = fmt.Sprintf("revealed delay:%dms", data.ScrollDelay.Milliseconds())
	}
	return el("div", []html.Attribute{
		attr("id", MoreID),
		attr("class", "catalog-more"),
		attr("hx-get", href),
		attr("hx-trigger", trigger),
		attr("hx-swap", "outerHTML"),
		attr("hx-indicator", "#"+SpinnerID),
	})
}
