// Package frontend serves the embedded upload form and its stylesheet.
package frontend

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// UploadPage serves the HTML upload form.
func UploadPage(w http.ResponseWriter, _ *http.Request) {
	page, err := staticFS.ReadFile("static/upload.html")
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// StyleCSS serves the stylesheet with a short-lived public cache directive.
func StyleCSS(w http.ResponseWriter, _ *http.Request) {
	css, err := staticFS.ReadFile("static/style.css")
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(css)
}
