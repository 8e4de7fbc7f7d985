// Package web holds the server-rendered pages and the echo renderer that
// executes them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafe-finder/internal/validation"
)

//go:embed templates
var templatesFS embed.FS

// Renderer implements echo.Renderer.  Every page is parsed together with
// the shared layout, so page names are the page file names.
type Renderer struct {
	pages map[string]*template.Template
}

type textField struct {
	Name, Label, Value, Error string
}

type checkField struct {
	Name, Label string
	Checked     bool
}

var funcs = template.FuncMap{
	"yesno": func(b bool) string {
		if b {
			return "✔"
		}
		return "✘"
	},
	"field": func(name, label, value string, errs validation.Errors) textField {
		return textField{Name: name, Label: label, Value: value, Error: errs.For(name)}
	},
	"check": func(name, label string, checked bool) checkField {
		return checkField{Name: name, Label: label, Checked: checked}
	},
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[path.Base(name)] = t
	}
	return r, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
