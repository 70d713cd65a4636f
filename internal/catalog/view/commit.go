package view

import (
	"fmt"

	"golang.org/x/net/html"
)

// MissingElementError reports a host page without a required container.
type MissingElementError struct {
	ID string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("view: host page has no element #%s", e.ID)
}

// Commit replaces the content of the host page containers with fragments.
// All required containers are looked up first; when one is missing nothing
// is modified. The mobile sidebar is optional.
func Commit(doc *html.Node, f Fragments) error {
	list := FindByID(doc, ProductListID)
	if list == nil {
		return &MissingElementError{ID: ProductListID}
	}
	sidebar := FindByID(doc, SidebarID)
	if sidebar == nil {
		return &MissingElementError{ID: SidebarID}
	}
	mobile := FindByID(doc, SidebarMobileID)

	replaceChildren(list, f.ProductList)
	replaceChildren(sidebar, f.Sidebar)
	if mobile != nil {
		replaceChildren(mobile, f.SidebarMobile)
	}
	return nil
}

// CommitIntro fills the optional intro container. A page without one is left
// unchanged.
func CommitIntro(doc *html.Node, intro []*html.Node) {
	if len(intro) == 0 {
		return
	}
	if target := FindByID(doc, IntroID); target != nil {
		replaceChildren(target, intro)
	}
}

// OutOfBand wraps a fragment so htmx swaps it into the element with the given
// id instead of the request target.
func OutOfBand(id string, children ...*html.Node) *html.Node {
	return el("div", []html.Attribute{
		attr("id", id),
		attr("hx-swap-oob", "innerHTML"),
	}, children...)
}
