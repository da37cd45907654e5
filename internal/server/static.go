package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// spaHandler serves files from dir. Paths that match no file and look like client routes
// (no '.' in them) get index.html; everything else unmatched is 404.
type spaHandler struct {
	dir        string
	fileServer http.Handler
}

func newSPAHandler(dir string) http.Handler {
	if dir == "" {
		dir = "."
	}
	return &spaHandler{
		dir:        dir,
		fileServer: http.FileServer(http.Dir(dir)),
	}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	if strings.HasPrefix(clean, "/api") {
		http.NotFound(w, r)
		return
	}

	if info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(clean))); err == nil {
		if !info.IsDir() || h.hasIndex(clean) {
			h.fileServer.ServeHTTP(w, r)
			return
		}
	}

	if strings.Contains(clean, ".") {
		http.NotFound(w, r)
		return
	}

	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

func (h *spaHandler) hasIndex(dir string) bool {
	_, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(dir), "index.html"))
	return err == nil
}
