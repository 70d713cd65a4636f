package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"finitefield.org/catalog/internal/catalog/i18n"
	"finitefield.org/catalog/internal/catalog/products"
)

func sampleProducts() []products.Product {
	return []products.Product{
		{NameDE: "Quark", NameRU: "Творог", NetWeight: "250g", ProteinPer100g: "12", ProteinPerUnit: "30", Price: "1.99", ImageID: "q-1", Group: "Milchprodukte"},
		{NameDE: "Apfel", NameRU: "Яблоко", NetWeight: "1kg", ProteinPer100g: "0.3", ProteinPerUnit: "3", Price: "0.99", ImageID: "a-1", Group: "Obst"},
	}
}

func dataFor(items []products.Product, page, size int) Data {
	groups := products.Categorize(items)
	return Data{
		Page:        products.Paginate(groups, page, size),
		Groups:      groups,
		State:       State{Lang: "de", Page: page},
		MoreURL:     "/products/more",
		ScrollDelay: time.Second,
	}
}

func render(t *testing.T, nodes ...*html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nodes...))
	return buf.String()
}

func parse(t *testing.T, nodes ...*html.Node) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(render(t, nodes...)))
	require.NoError(t, err)
	return doc
}

func newShell(t *testing.T) *html.Node {
	t.Helper()
	doc, err := Shell(ShellOptions{
		AssetBase:          "/public/static/",
		SearchURL:          "/products",
		ScrollTopThreshold: 300,
		HeaderOffset:       70,
		Languages: []LanguageLink{
			{Code: "de", Name: "Deutsch", Href: "?lang=de"},
			{Code: "ru", Name: "Русский", Href: "?lang=ru"},
		},
	})
	require.NoError(t, err)
	return doc
}

func TestBuildRendersSectionsInGroupOrder(t *testing.T) {
	t.Parallel()

	doc := newShell(t)
	require.NoError(t, Commit(doc, Build(dataFor(sampleProducts(), 1, 0))))

	localizer, err := i18n.New(i18n.Default, "de")
	require.NoError(t, err)
	localizer.Apply(doc, "de")

	dom := parse(t, doc)
	sections := dom.Find("#product-list > .accordion")
	require.Equal(t, 2, sections.Length())

	first := sections.Eq(0)
	require.Equal(t, "accordion-category-0", first.AttrOr("id", ""))
	require.Equal(t, "Milchprodukte", strings.TrimSpace(first.Find(".accordion-button").Text()))
	require.Equal(t, 1, first.Find(".product-card").Length())
	require.Equal(t, "Quark", first.Find(".product-card h5").Text())
	require.Equal(t, "Preis: €1.99", first.Find(".product-price").Text())

	second := sections.Eq(1)
	require.Equal(t, "accordion-category-1", second.AttrOr("id", ""))
	require.Equal(t, "Obst", strings.TrimSpace(second.Find(".accordion-button").Text()))
	require.Equal(t, "Apfel", second.Find(".product-card h5").Text())
	require.Equal(t, "Preis: €0.99", second.Find(".product-price").Text())

	require.Equal(t, 2, dom.Find("#category-sidebar a.sidebar-link").Length())
	require.Equal(t, 2, dom.Find("#category-sidebar-mobile a.sidebar-link").Length())
	require.Equal(t, "#accordion-category-1", dom.Find("#category-sidebar a").Eq(1).AttrOr("href", ""))
	require.Equal(t, 0, dom.Find("#"+MoreID).Length())
}

func TestCardMarkup(t *testing.T) {
	t.Parallel()

	dom := parse(t, Card(sampleProducts()[0], "images"))
	card := dom.Find(".product-card")
	require.Equal(t, 1, card.Length())

	img := card.Find("img")
	require.Equal(t, "images/q-1.jpg", img.AttrOr("src", ""))
	require.Equal(t, "images/placeholder.jpg", img.AttrOr("data-fallback", ""))
	require.Equal(t, "#imageModal", img.AttrOr("data-bs-target", ""))
	require.Equal(t, "Quark", img.AttrOr("alt", ""))

	require.Equal(t, "Творог", card.Find("h5 + p").Text())
	require.Equal(t, ": 12g", card.Find(`p:has([data-i18n="label.protein_100g"])`).Text())
	require.Equal(t, ": 30g", card.Find(`p:has([data-i18n="label.protein_unit"])`).Text())
	require.Equal(t, ": 250g", card.Find(`p:has([data-i18n="label.weight"])`).Text())
	require.Equal(t, ": €1.99", card.Find(".product-price").Text())
	require.Equal(t, "", card.Find(`[data-i18n="label.price"]`).Text())
}

func TestCommitIsIdempotent(t *testing.T) {
	t.Parallel()

	data := dataFor(sampleProducts(), 1, 0)
	doc := newShell(t)
	require.NoError(t, Commit(doc, Build(data)))
	once := render(t, doc)
	require.NoError(t, Commit(doc, Build(data)))
	require.Equal(t, once, render(t, doc))
}

func TestCommitMissingElement(t *testing.T) {
	t.Parallel()

	doc, err := ParseShell(strings.NewReader(`<html><body><div id="product-list"><p>keep</p></div></body></html>`))
	require.NoError(t, err)

	err = Commit(doc, Build(dataFor(sampleProducts(), 1, 0)))
	var missing *MissingElementError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, SidebarID, missing.ID)

	dom := parse(t, doc)
	require.Equal(t, "keep", dom.Find("#product-list p").Text(), "nothing is modified when a container is missing")
}

func TestCommitWithoutMobileSidebar(t *testing.T) {
	t.Parallel()

	doc, err := ParseShell(strings.NewReader(`<html><body><nav id="category-sidebar"></nav><div id="product-list"></div></body></html>`))
	require.NoError(t, err)
	require.NoError(t, Commit(doc, Build(dataFor(sampleProducts(), 1, 0))))
	require.Equal(t, 2, parse(t, doc).Find(".product-card").Length())
}

func TestEmptyCatalogRendersEmptyState(t *testing.T) {
	t.Parallel()

	doc := newShell(t)
	require.NoError(t, Commit(doc, Build(dataFor(nil, 1, 0))))
	localizer, err := i18n.New(i18n.Default, "de")
	require.NoError(t, err)
	localizer.Apply(doc, "en")

	dom := parse(t, doc)
	require.Equal(t, 0, dom.Find(".product-card").Length())
	require.Equal(t, 0, dom.Find("#category-sidebar a").Length())
	require.Equal(t, localizer.T("en", i18n.KeyEmpty), dom.Find(".catalog-empty").Text())
}

func TestPaginatedBuildAddsSentinel(t *testing.T) {
	t.Parallel()

	items := []products.Product{
		{NameDE: "A", Group: "G1"},
		{NameDE: "B", Group: "G1"},
		{NameDE: "C", Group: "G1"},
		{NameDE: "D", Group: "G2"},
	}
	data := dataFor(items, 1, 2)
	data.State.Term = "x"
	dom := parse(t, ListItems(data)...)

	require.Equal(t, 2, dom.Find(".product-card").Length())
	more := dom.Find("#" + MoreID)
	require.Equal(t, 1, more.Length())
	require.Equal(t, "/products/more?page=2&q=x", more.AttrOr("hx-get", ""))
	require.Equal(t, "revealed delay:1000ms", more.AttrOr("hx-trigger", ""))
	require.Equal(t, "#loading-spinner", more.AttrOr("hx-indicator", ""))
	require.Equal(t, "outerHTML", more.AttrOr("hx-swap", ""))

	data = dataFor(items, 2, 2)
	dom = parse(t, ListItems(data)...)
	sections := dom.Find(".accordion")
	require.Equal(t, 2, sections.Length())
	require.Equal(t, "accordion-category-0-p2", sections.Eq(0).AttrOr("id", ""))
	require.Equal(t, 1, sections.Eq(0).Find(`[data-i18n="list.continued"]`).Length())
	require.Equal(t, "accordion-category-1", sections.Eq(1).AttrOr("id", ""))
	require.Equal(t, 0, dom.Find("#"+MoreID).Length())
}

func TestShellContract(t *testing.T) {
	t.Parallel()

	dom := parse(t, newShell(t))
	for _, id := range []string{
		ProductListID, SidebarID, SidebarMobileID, SearchID, ScrollTopID,
		ModalID, ModalImageID, SpinnerID, IntroID, i18n.LanguageButtonID,
	} {
		require.Equal(t, 1, dom.Find("#"+id).Length(), "missing #%s", id)
	}
	body := dom.Find("body")
	require.Equal(t, "300", body.AttrOr("data-scroll-top-threshold", ""))
	require.Equal(t, "70", body.AttrOr("data-header-offset", ""))
	require.Equal(t, "/products", dom.Find("#search").AttrOr("hx-get", ""))
	require.Equal(t, "/public/static/catalog.js", dom.Find(`script[defer]`).AttrOr("src", ""))
	require.Equal(t, 2, dom.Find(".dropdown-menu a").Length())
}

func TestShellWithoutSearchURLLeavesSearchToScript(t *testing.T) {
	t.Parallel()

	doc, err := Shell(ShellOptions{AssetBase: "public/static"})
	require.NoError(t, err)
	dom := parse(t, doc)
	_, ok := dom.Find("#search").Attr("hx-get")
	require.False(t, ok)
}

func TestIntroMarkdown(t *testing.T) {
	t.Parallel()

	intro, err := ParseIntro([]byte("---\ntitle: Willkommen\n---\nFrische **Ware**.\n\n<script>alert(1)</script>\n"))
	require.NoError(t, err)
	require.Equal(t, "Willkommen", intro.Title)
	require.NotContains(t, intro.HTML, "<script>")

	nodes, err := intro.Nodes()
	require.NoError(t, err)

	doc := newShell(t)
	CommitIntro(doc, nodes)
	dom := parse(t, doc)
	require.Equal(t, "Willkommen", dom.Find("#catalog-intro h2").Text())
	require.Equal(t, "Ware", dom.Find("#catalog-intro strong").Text())
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	shell := newShell(t)
	copyDoc := Clone(shell)
	require.NoError(t, Commit(copyDoc, Build(dataFor(sampleProducts(), 1, 0))))
	require.Equal(t, 0, parse(t, shell).Find(".product-card").Length())
	require.Equal(t, 2, parse(t, copyDoc).Find(".product-card").Length())
}

func TestStateWithTermResetsPage(t *testing.T) {
	t.Parallel()

	s := ParseState(map[string][]string{"q": {" milch "}, "page": {"3"}})
	require.Equal(t, State{Term: "milch", Page: 3}, s)
	require.Equal(t, State{Term: "obst", Page: 1}, s.WithTerm("obst"))
	require.Equal(t, 1, ParseState(map[string][]string{"page": {"-2"}}).Page)
}

func TestStateClampsPageNumber(t *testing.T) {
	t.Parallel()

	huge := ParseState(map[string][]string{"page": {"9223372036854775807"}})
	require.Equal(t, MaxPage, huge.Page)
	require.Equal(t, MaxPage, ParseState(map[string][]string{"page": {"99999999999999999999999"}}).Page)
	require.Equal(t, 1, ParseState(map[string][]string{"page": {"-99999999999999999999999"}}).Page)
	require.Equal(t, MaxPage, huge.Next().Page)
	require.Equal(t, 3, State{Page: 2}.Next().Page)
}

func TestSentinelStopsAtLastPage(t *testing.T) {
	t.Parallel()

	items := []products.Product{
		{NameDE: "A", Group: "G1"},
		{NameDE: "B", Group: "G1"},
		{NameDE: "C", Group: "G1"},
	}
	state := ParseState(map[string][]string{"page": {"9223372036854775807"}})
	data := dataFor(items, state.Page, 2)
	require.False(t, data.Page.HasMore)
	require.Nil(t, Sentinel(data))

	saturated := dataFor(items, 1, 2)
	saturated.Page.Number = MaxPage
	saturated.State.Page = MaxPage
	require.True(t, saturated.Page.HasMore)
	require.Nil(t, Sentinel(saturated))
}
