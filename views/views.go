// Package views renders the pages the server produces itself rather than
// loading from content: the not-found and server-error documents.
package views

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// Site carries the site-wide values the views show.
type Site struct {
	Name string
	URL  string
}

type errorPage struct {
	Site    Site
	Code    int
	Title   string
	Message string
}

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | {{.Site.Name}}</title>
<meta name="robots" content="noindex">
<link rel="stylesheet" href="/styles/styles.css">
</head>
<body class="appear error-page">
<main>
<div class="section">
<div class="default-content-wrapper">
<span class="label">{{.Code}}</span>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<p class="button-container"><a class="button primary" href="/">Back to {{.Site.Name}}</a></p>
</div>
</div>
</main>
</body>
</html>
`))

func render(data errorPage) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return errorTemplate.Execute(w, data)
	})
}

// NotFound is the fallback 404 page, used when the content has no /404 page.
func NotFound(site Site) templ.Component {
	return render(errorPage{
		Site:    site,
		Code:    404,
		Title:   "Page not found",
		Message: "The page you are looking for does not exist or has moved.",
	})
}

// ServerError is the 5xx page.
func ServerError(site Site) templ.Component {
	return render(errorPage{
		Site:    site,
		Code:    500,
		Title:   "Something went wrong",
		Message: "We could not load this page. Please try again shortly.",
	})
}
