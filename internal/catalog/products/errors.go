package products

import (
	"errors"
	"fmt"
)

// ErrMissingHeader is reported when the CSV document has no header row.
var ErrMissingHeader = errors.New("products: csv header row missing")

// FetchError describes a failure retrieving the CSV document.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError describes a malformed CSV document.
type ParseError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse csv line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse csv: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// LoadError is returned by Loader.Load. Err is a *FetchError or a *ParseError.
type LoadError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load products from %s: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }
