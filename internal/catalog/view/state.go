package view

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// MaxPage bounds the page number accepted from a request.
const MaxPage = 1 << 20

// State is the per-request view state: active language, search term and page.
type State struct {
	Lang string
	Term string
	Page int
}

// ParseState reads the search term (`q`) and page (`page`) from query values.
// The page is clamped to [1, MaxPage]. The language is resolved separately.
func ParseState(values url.Values) State {
	s := State{Term: strings.TrimSpace(values.Get("q")), Page: 1}
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			s.Page = min(n, MaxPage)
		} else if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			s.Page = MaxPage
		}
	}
	return s
}

// WithTerm returns the state for a new search; pagination restarts at page 1.
func (s State) WithTerm(term string) State {
	s.Term = strings.TrimSpace(term)
	s.Page = 1
	return s
}

// Next returns the state for the following page. It saturates at MaxPage.
func (s State) Next() State {
	switch {
	case s.Page < 1:
		s.Page = 2
	case s.Page < MaxPage:
		s.Page++
	default:
		s.Page = MaxPage
	}
	return s
}

// Values encodes the state as query parameters. Defaults are omitted.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Term != "" {
		v.Set("q", s.Term)
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	return v
}
