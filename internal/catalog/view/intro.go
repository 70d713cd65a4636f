package view

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

// Intro is the optional introduction block above the product list.
type Intro struct {
	Title string
	HTML  string
}

type introFrontMatter struct {
	Title string `yaml:"title"`
}

var introPolicy = newIntroPolicy()

func newIntroPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "div")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// LoadIntro reads a Markdown file with optional YAML front matter.
func LoadIntro(path string) (Intro, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Intro{}, fmt.Errorf("view: read intro: %w", err)
	}
	return ParseIntro(data)
}

// ParseIntro renders Markdown to sanitized HTML.
func ParseIntro(data []byte) (Intro, error) {
	fm, body := splitFrontMatter(string(data))
	front := introFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Intro{}, fmt.Errorf("view: parse intro front matter: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return Intro{}, fmt.Errorf("view: render intro: %w", err)
	}
	return Intro{
		Title: strings.TrimSpace(front.Title),
		HTML:  strings.TrimSpace(introPolicy.Sanitize(buf.String())),
	}, nil
}

// Nodes parses the intro into nodes ready for CommitIntro.
func (i Intro) Nodes() ([]*html.Node, error) {
	var out []*html.Node
	if i.Title != "" {
		out = append(out, el("h2", []html.Attribute{attr("class", "h4")}, text(i.Title)))
	}
	if i.HTML == "" {
		return out, nil
	}
	context := &html.Node{Type: html.ElementNode, Data: "section", DataAtom: atom.Section}
	body, err := html.ParseFragment(strings.NewReader(i.HTML), context)
	if err != nil {
		return nil, fmt.Errorf("view: parse intro html: %w", err)
	}
	return append(out, body...), nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}
