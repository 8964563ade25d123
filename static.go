package jslink

import (
	"embed"
	"net/http"
	"strings"
)

//go:embed all:static
var staticFiles embed.FS

// serveIndex serves the workbench's single-page UI shell (spec §6 "GET /").
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	content, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("failed to load workbench UI"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

// serveStatic serves everything under /static/ from the embedded asset
// tree (spec §6 "GET /static/*").
func (server *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/static/")

	content, err := staticFiles.ReadFile("static/" + filename)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("file not found"))
		return
	}

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(filename, ".js"):
		contentType = "application/javascript"
	case strings.HasSuffix(filename, ".css"):
		contentType = "text/css"
	case strings.HasSuffix(filename, ".svg"):
		contentType = "image/svg+xml"
	case strings.HasSuffix(filename, ".html"):
		contentType = "text/html; charset=utf-8"
	case strings.HasSuffix(filename, ".json"):
		contentType = "application/json"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.Write(content)
}
