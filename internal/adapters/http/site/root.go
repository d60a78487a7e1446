// Package site serves the embedded landing page.
package site

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Register serves static/index.html at exactly "/". Other paths fall
// through to the mux's remaining routes.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /{$}", http.FileServerFS(pages()))
}

func pages() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
