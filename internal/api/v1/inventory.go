package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/pixopt/internal/inventory"
)

// maxUploadMemory bounds the multipart form held in memory; larger parts
// spill to temporary files.
const maxUploadMemory = 32 << 20

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	recursive := s.cfg.Recursive
	if req.Recursive != nil {
		recursive = *req.Recursive
	}

	res, err := s.deps.Inventory.Scan(req.Folder, recursive)
	if err != nil {
		s.writeInventoryError(w, req.Folder, err)
		return
	}
	writeJSON(w, http.StatusOK, imagesResponse{Images: res.Images, Folder: &res.Folder, Skipped: res.Skipped})
}

func (s *Server) resolvePaths(w http.ResponseWriter, r *http.Request) {
	var req resolvePathsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	folder := strings.TrimSpace(req.Folder)
	resolved, err := s.deps.Inventory.Resolve(folder, req.Filenames)
	if err != nil {
		s.writeInventoryError(w, folder, err)
		return
	}
	writeJSON(w, http.StatusOK, resolvePathsResponse{Resolved: resolved, Folder: folder})
}

// resolveFiles describes uploaded files. Each "files" part may be paired by
// position with a "paths[]" field naming the file on disk; when that path is
// a readable file it is used, otherwise the uploaded bytes are inspected and
// the image is marked as having no path.
func (s *Server) resolveFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "NO_FILES", "No files received")
		return
	}
	paths := r.MultipartForm.Value["paths[]"]

	images := make([]inventory.ImageInfo, 0, len(files))
	var folder *string
	for i, fh := range files {
		var realPath string
		if i < len(paths) {
			realPath = strings.TrimSpace(paths[i])
		}

		if realPath != "" && isFile(realPath) {
			info, err := inventory.Inspect(realPath)
			if err != nil {
				s.log.Warn("skipping unreadable image", "path", realPath, "error", err)
				continue
			}
			images = append(images, info)
			if folder == nil {
				dir := filepath.Dir(realPath)
				folder = &dir
			}
			continue
		}

		f, err := fh.Open()
		if err != nil {
			s.log.Warn("skipping upload", "name", fh.Filename, "error", err)
			continue
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			s.log.Warn("skipping upload", "name", fh.Filename, "error", err)
			continue
		}
		info, err := inventory.InspectBytes(fh.Filename, data)
		if err != nil {
			s.log.Warn("skipping unreadable upload", "name", fh.Filename, "error", err)
			continue
		}
		images = append(images, info)
	}

	inventory.SortByName(images)
	writeJSON(w, http.StatusOK, imagesResponse{Images: images, Folder: folder})
}

func (s *Server) writeInventoryError(w http.ResponseWriter, folder string, err error) {
	if errors.Is(err, inventory.ErrFolderNotFound) {
		writeError(w, http.StatusBadRequest, "FOLDER_NOT_FOUND", "Folder not found: "+strings.TrimSpace(folder))
		return
	}
	s.log.Error("inventory failed", "folder", folder, "error", err)
	writeError(w, http.StatusInternalServerError, "INVENTORY_ERROR", err.Error())
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
