package content

import (
	"strings"

	"github.com/eringen/contentflow/decorate"
	"github.com/eringen/contentflow/dom"
)

const shellDoc = `<!DOCTYPE html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"></head><body><header></header><main></main><footer></footer></body></html>`

// metaProperty maps authored metadata keys to their Open Graph property.
var metaProperty = map[string]string{
	"image": "og:image",
	"title": "og:title",
}

// Shell wraps plain page markup into a complete document. A metadata block
// in body becomes <title> and <meta> tags and is dropped from the body,
// along with a section it leaves empty.
func Shell(body string) (string, error) {
	doc, err := dom.Parse(shellDoc)
	if err != nil {
		return "", err
	}
	wrapper, err := dom.Fragment(body)
	if err != nil {
		return "", err
	}
	head := dom.Head(doc)
	if meta := dom.Query(wrapper, "div.metadata"); meta != nil {
		for _, kv := range decorate.Pairs(meta) {
			if kv.Key == "title" {
				title := dom.Element("title")
				dom.Append(title, dom.TextNode(kv.Value))
				dom.Append(head, title)
			}
			if prop, ok := metaProperty[kv.Key]; ok {
				dom.SetMetadata(head, prop, kv.Value)
			}
			if kv.Key != "title" && kv.Key != "image" {
				dom.SetMetadata(head, kv.Key, kv.Value)
			}
		}
		section := dom.ParentElement(meta)
		dom.Remove(meta)
		if section != nil && section != wrapper && strings.TrimSpace(dom.InnerHTML(section)) == "" {
			dom.Remove(section)
		}
	}
	main := dom.Query(doc, "main")
	for c := wrapper.FirstChild; c != nil; {
		next := c.NextSibling
		wrapper.RemoveChild(c)
		main.AppendChild(c)
		c = next
	}
	return dom.OuterHTML(doc), nil
}

// MainHTML returns the inner markup of a document's <main>, or of its body
// when it has none.
func MainHTML(src string) (string, error) {
	doc, err := dom.Parse(src)
	if err != nil {
		return "", err
	}
	if main := dom.Query(doc, "main"); main != nil {
		return dom.InnerHTML(main), nil
	}
	return dom.InnerHTML(dom.Body(doc)), nil
}
