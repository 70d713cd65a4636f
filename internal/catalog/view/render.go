package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
)

// Render writes nodes as HTML.
func Render(w io.Writer, nodes ...*html.Node) error {
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// Component adapts node trees to a templ component.
func Component(nodes ...*html.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return Render(w, nodes...)
	})
}
