package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
)

// Marker attributes recognised by Apply. They only select elements; they carry no styling.
const (
	AttrText        = "data-i18n"
	AttrPlaceholder = "data-i18n-placeholder"
	AttrAriaLabel   = "data-i18n-aria-label"

	// LanguageButtonID identifies the language selector whose text shows the active language.
	LanguageButtonID = "language-button"
)

// Localizer resolves languages and rewrites marked elements with translated labels.
type Localizer struct {
	dict      Dictionary
	fallback  string
	supported []string
	tags      []language.Tag
	matcher   language.Matcher
}

// New builds a localizer. The fallback language must exist in dict. Language
// codes are normalized (see NormalizeCode), so two keys naming the same
// language are rejected.
func New(dict Dictionary, fallback string) (*Localizer, error) {
	normalized := make(Dictionary, len(dict))
	for lang, labels := range dict {
		code, err := NormalizeCode(lang)
		if err != nil {
			return nil, fmt.Errorf("i18n: invalid language code %q: %w", lang, err)
		}
		if _, dup := normalized[code]; dup {
			return nil, fmt.Errorf("i18n: language %q defined more than once", code)
		}
		normalized[code] = labels
	}
	fallback, err := NormalizeCode(fallback)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid fallback language: %w", err)
	}
	if _, ok := normalized[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback language %q not in dictionary", fallback)
	}
	others := make([]string, 0, len(normalized))
	for lang := range normalized {
		if lang != fallback {
			others = append(others, lang)
		}
	}
	sort.Strings(others)
	supported := append([]string{fallback}, others...)

	tags := make([]language.Tag, 0, len(supported))
	for _, lang := range supported {
		tags = append(tags, language.MustParse(lang))
	}
	return &Localizer{
		dict:      normalized,
		fallback:  fallback,
		supported: supported,
		tags:      tags,
		matcher:   language.NewMatcher(tags),
	}, nil
}

// NormalizeCode returns the lower-case BCP 47 form of a language code, so
// "pt_BR", "PT-br" and "pt-BR" all become "pt-br".
func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code), err
	}
	return strings.ToLower(tag.String()), nil
}

// Fallback returns the default language.
func (l *Localizer) Fallback() string { return l.fallback }

// Supported lists the available languages, fallback first.
func (l *Localizer) Supported() []string {
	out := make([]string, len(l.supported))
	copy(out, l.supported)
	return out
}

// Language returns code if it is supported (region subtags are ignored
// unless the dictionary has that exact variant), otherwise the fallback.
func (l *Localizer) Language(code string) string {
	if lang, ok := l.lookup(code); ok {
		return lang
	}
	return l.fallback
}

// Supports reports whether code names a supported language.
func (l *Localizer) Supports(code string) bool {
	_, ok := l.lookup(code)
	return ok
}

func (l *Localizer) lookup(code string) (string, bool) {
	if strings.TrimSpace(code) == "" {
		return "", false
	}
	norm, err := NormalizeCode(code)
	if err != nil {
		return "", false
	}
	if _, ok := l.dict[norm]; ok {
		return norm, true
	}
	base, _ := language.MustParse(norm).Base()
	if _, ok := l.dict[base.String()]; ok {
		return base.String(), true
	}
	return "", false
}

// Resolve picks the best supported language for an Accept-Language header.
func (l *Localizer) Resolve(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return l.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return l.fallback
	}
	_, idx, conf := l.matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(l.supported) {
		return l.fallback
	}
	return l.supported[idx]
}

// T returns the label for key in lang, then in the fallback language, then the key itself.
func (l *Localizer) T(lang, key string) string {
	labels, ok := l.dict[lang]
	if !ok {
		if code, found := l.lookup(lang); found {
			labels, ok = l.dict[code], true
		}
	}
	if ok {
		if v, ok := labels[key]; ok {
			return v
		}
	}
	if v, ok := l.dict[l.fallback][key]; ok {
		return v
	}
	return key
}

// Apply switches the tree rooted at root to lang and returns the language
// actually applied. Unknown languages fall back to the default. Every
// element carrying a marker attribute is (re)populated, the language button
// shows the active language, and an <html> element gets its lang attribute.
func (l *Localizer) Apply(root *html.Node, lang string) string {
	lang = l.Language(lang)
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if key, ok := attr(n, AttrText); ok {
			setText(n, l.T(lang, key))
		}
		if key, ok := attr(n, AttrPlaceholder); ok {
			setAttr(n, "placeholder", l.T(lang, key))
		}
		if key, ok := attr(n, AttrAriaLabel); ok {
			setAttr(n, "aria-label", l.T(lang, key))
		}
		if id, _ := attr(n, "id"); id == LanguageButtonID {
			setText(n, l.T(lang, KeyLanguageName))
		}
		if n.DataAtom == atom.Html {
			setAttr(n, "lang", lang)
		}
	})
	return lang
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
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

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
