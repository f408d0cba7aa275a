// Package web serves the embedded single-page frontend.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler returns an http.Handler serving the frontend assets, with
// index.html at the root.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The subtree is embedded at build time; a failure here is a
		// packaging bug, not a runtime condition.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
