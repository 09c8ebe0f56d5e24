package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eringen/contentflow/content"
)

// Response is the query-index.json document.
type Response struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
	Data   []content.Entry `json:"data"`
}

// Response returns the rows for q in query-index.json form. Limit reports
// the number of rows returned.
func (s *Store) Response(ctx context.Context, q Query) (Response, error) {
	rows, total, err := s.List(ctx, q)
	if err != nil {
		return Response{}, err
	}
	if rows == nil {
		rows = []content.Entry{}
	}
	return Response{Total: total, Offset: max(q.Offset, 0), Limit: len(rows), Data: rows}, nil
}

// HTTPIndex reads entries from a remote query-index.json.
type HTTPIndex struct {
	URL    string
	Client *http.Client
}

var _ content.EntrySource = (*HTTPIndex)(nil)

// NewHTTPIndex returns a client for url.
func NewHTTPIndex(url string, timeout time.Duration) *HTTPIndex {
	return &HTTPIndex{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Entries fetches and decodes the remote index.
func (h *HTTPIndex) Entries(ctx context.Context) ([]content.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("index: request %s: %w", h.URL, err)
	}
	req.Header.Set("Accept", "application/json")
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index: fetch %s: %w", h.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("index: fetch %s: status %d", h.URL, resp.StatusCode)
	}
	var doc Response
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("index: decode %s: %w", h.URL, err)
	}
	return doc.Data, nil
}
