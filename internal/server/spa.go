package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

type spaFileServer struct {
	fileServer http.Handler
	fileSystem fs.FS
}

func newSPAFileServer(fsys fs.FS) *spaFileServer {
	return &spaFileServer{
		fileServer: http.FileServer(http.FS(fsys)),
		fileSystem: fsys,
	}
}

// ServeHTTP serves existing assets and falls back to index.html for any
// other path. The player binary is revalidated on every load.
func (s *spaFileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		name = "index.html"
	}

	if _, err := fs.Stat(s.fileSystem, name); err != nil {
		r.URL.Path = "/"
		name = "index.html"
	}

	switch path.Ext(name) {
	case ".wasm":
		w.Header().Set("Content-Type", "application/wasm")
		w.Header().Set("Cache-Control", "no-cache")
	case ".html":
		w.Header().Set("Cache-Control", "no-cache")
	}

	s.fileServer.ServeHTTP(w, r)
}
