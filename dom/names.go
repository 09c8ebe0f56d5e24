package dom

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ToClassName turns an authored label into a class-safe identifier:
// "Section Style" -> "section-style", "Café Crème!" -> "cafe-creme".
func ToClassName(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ToCamelCase turns an authored label into a dataset property name:
// "Background Color" -> "backgroundColor".
func ToCamelCase(name string) string {
	cls := ToClassName(name)
	var b strings.Builder
	upper := false
	for i := 0; i < len(cls); i++ {
		ch := cls[i]
		if ch == '-' && i+1 < len(cls) && cls[i+1] >= 'a' && cls[i+1] <= 'z' {
			upper = true
			continue
		}
		if upper {
			ch -= 'a' - 'A'
			upper = false
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// MakeRelative strips scheme and host from href when they point at host.
func MakeRelative(href, host string) string {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" || !strings.EqualFold(u.Hostname(), host) {
		return href
	}
	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		out += "#" + u.EscapedFragment()
	}
	return out
}
