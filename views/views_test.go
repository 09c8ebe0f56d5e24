package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestErrorPages(t *testing.T) {
	site := Site{Name: "Acme & Co", URL: "https://acme.test"}
	var buf bytes.Buffer
	if err := NotFound(site).Render(context.Background(), &buf); err != nil {
		t.Fatalf("NotFound render failed: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"<title>Page not found | Acme &amp; Co</title>", `<span class="label">404</span>`, "Back to Acme &amp; Co"} {
		if !strings.Contains(got, want) {
			t.Errorf("NotFound missing %q", want)
		}
	}

	buf.Reset()
	if err := ServerError(site).Render(context.Background(), &buf); err != nil {
		t.Fatalf("ServerError render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Something went wrong") {
		t.Errorf("ServerError missing title: %s", buf.String())
	}
}
