// Package web holds the storefront's HTML templates and stylesheet.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template. Pages are addressed by file name, e.g. "form.html".
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Static serves the embedded static assets.
func Static() (http.FileSystem, error) {
	return static(staticFS, "static")
}

func static(fsys fs.FS, dir string) (http.FileSystem, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
