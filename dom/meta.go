package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Metadata returns the content of <meta name=...> tags in doc, or of
// <meta property=...> when name looks like "og:title". Multiple matches are
// joined with ", "; a missing tag yields "".
func Metadata(doc *html.Node, name string) string {
	if name == "" {
		return ""
	}
	attr := "name"
	if strings.Contains(name, ":") {
		attr = "property"
	}
	var vals []string
	for _, m := range QueryAll(doc, "meta") {
		if Attr(m, attr) == name {
			vals = append(vals, Attr(m, "content"))
		}
	}
	return strings.Join(vals, ", ")
}

// SetMetadata adds or replaces a <meta> tag in head.
func SetMetadata(head *html.Node, name, content string) {
	attr := "name"
	if strings.Contains(name, ":") {
		attr = "property"
	}
	for _, m := range QueryAll(head, "meta") {
		if Attr(m, attr) == name {
			SetAttr(m, "content", content)
			return
		}
	}
	Append(head, Element("meta", attr, name, "content", content))
}

// MetadataMap snapshots every <meta name|property> in doc keyed by name or
// property, joining repeated keys like Metadata does.
func MetadataMap(doc *html.Node) map[string]string {
	out := make(map[string]string)
	for _, m := range QueryAll(doc, "meta") {
		key := Attr(m, "name")
		if key == "" {
			key = Attr(m, "property")
		}
		if key == "" {
			continue
		}
		if prev, ok := out[key]; ok {
			out[key] = prev + ", " + Attr(m, "content")
			continue
		}
		out[key] = Attr(m, "content")
	}
	return out
}
