package v1

import (
	"net/http"
	"strconv"

	"github.com/vmunix/pixopt/internal/imaging"
)

// preview serves a JPEG thumbnail of any local image file.
func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" || !isFile(path) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	data, err := imaging.Thumbnail(path, s.cfg.PreviewWidth, s.cfg.PreviewHeight, s.cfg.PreviewQuality)
	if err != nil {
		s.log.Warn("preview failed", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
