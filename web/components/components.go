// Package components renders the HTML pages. Each page is a templ
// component backed by an embedded html/template set.
package components

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed assets
var assetFiles embed.FS

var pages = map[PageType]*template.Template{
	PageTypeHome:        parsePage("home.html"),
	PageTypeResults:     parsePage("results.html"),
	PageTypeTransaction: parsePage("transaction.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFiles, "templates/base.html", "templates/"+name))
}

func page(p PageType, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := pages[p].ExecuteTemplate(w, "base", data); err != nil {
			return fmt.Errorf("could not render %s page: %w", p, err)
		}

		return nil
	})
}

func Home(rc *HomeContext) templ.Component {
	return page(PageTypeHome, rc)
}

func Results(rc *ResultsContext) templ.Component {
	return page(PageTypeResults, rc)
}

func Transaction(rc *TransactionContext) templ.Component {
	return page(PageTypeTransaction, rc)
}

// Assets holds the stylesheet and the browser script.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFiles, "assets")
	if err != nil {
		panic(err)
	}

	return sub
}
