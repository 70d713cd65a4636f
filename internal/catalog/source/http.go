package source

import (
	"context"
	"io"
	"net/http"

	"finitefield.org/catalog/internal/catalog/products"
)

// HTTP fetches the CSV with a GET request.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP returns an HTTP source. A nil client uses http.DefaultClient.
func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{url: url, client: client}
}

// Name implements products.Source.
func (h *HTTP) Name() string { return h.url }

// Open implements products.Source. Non-2xx responses fail with a *products.FetchError.
func (h *HTTP) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &products.FetchError{Source: h.url, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
