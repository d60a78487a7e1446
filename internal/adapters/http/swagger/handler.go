// Package swagger serves the OpenAPI document and a ReDoc page that renders it.
package swagger

import (
	"bytes"
	"context"
	_ "embed"
	"net/http"
	"time"
)

// OpenAPI is the embedded OpenAPI 3 document.
//
//go:embed openapi.yaml
var OpenAPI []byte

// redocURL is the ReDoc bundle loaded by the docs page.
const redocURL = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// builtAt stamps Last-Modified so clients can revalidate the document.
var builtAt = time.Now()

// Register adds
//
//	GET /api-docs      ReDoc page
//	GET /openapi.yaml  the embedded document
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /api-docs", serveDocs)
	mux.HandleFunc("GET /openapi.yaml", serveDocument)
}

func serveDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}

func serveDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	http.ServeContent(w, r, "openapi.yaml", builtAt, bytes.NewReader(OpenAPI))
}

const docsPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>memtree API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + redocURL + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
