package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// MaxFragmentBytes is the default cap on an upstream fragment body.
const MaxFragmentBytes = 4 << 20

// ErrTooLarge reports an upstream body over the source's size cap.
var ErrTooLarge = errors.New("content: fragment too large")

// HTTPSource reads pages from an upstream origin that serves
// <path>.plain.html, such as an authoring preview host.
type HTTPSource struct {
	Origin string
	Client *http.Client
	// MaxBytes caps a fragment body; zero means MaxFragmentBytes.
	MaxBytes int64

	policy *bluemonday.Policy
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource returns a source for origin. A zero timeout leaves the
// client without one.
func NewHTTPSource(origin string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		Origin: strings.TrimRight(origin, "/"),
		Client: &http.Client{Timeout: timeout},
		policy: FragmentPolicy(),
	}
}

// FragmentPolicy is the sanitiser applied to upstream markup: user content
// rules plus the class, id and picture markup blocks are authored with.
func FragmentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowStandardAttributes()
	p.AllowDataAttributes()
	p.AllowElements("picture", "source")
	p.AllowAttrs("srcset", "type", "media", "width", "height").OnElements("source")
	p.AllowAttrs("loading", "width", "height").OnElements("img")
	return p
}

func plainPath(p string) string {
	p = CleanPath(p)
	if p == "/" {
		return "/index.plain.html"
	}
	return p + ".plain.html"
}

// Fragment fetches and sanitises <path>.plain.html.
func (s *HTTPSource) Fragment(ctx context.Context, p string) (string, error) {
	u := s.Origin + plainPath(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("content: request %s: %w", u, err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("content: fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s (%d)", ErrNotFound, p, resp.StatusCode)
	}
	limit := s.MaxBytes
	if limit <= 0 {
		limit = MaxFragmentBytes
	}
	// One byte past the cap tells a full body from a cut one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("content: read %s: %w", u, err)
	}
	if int64(len(body)) > limit {
		return "", fmt.Errorf("%w: %s over %d bytes", ErrTooLarge, u, limit)
	}
	policy := s.policy
	if policy == nil {
		policy = FragmentPolicy()
	}
	return policy.Sanitize(string(body)), nil
}

// Page fetches the fragment for p and wraps it in a document shell.
func (s *HTTPSource) Page(ctx context.Context, p string) (string, error) {
	body, err := s.Fragment(ctx, p)
	if err != nil {
		return "", err
	}
	return Shell(body)
}
