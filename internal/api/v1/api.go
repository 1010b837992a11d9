// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vmunix/pixopt/internal/convert"
)

// Config holds API server configuration. The conversion fields fill in
// whatever a request leaves unset.
type Config struct {
	Version string

	Suffix       string
	Quality      int
	Format       convert.Format
	OutputFolder string
	Recursive    bool

	PreviewWidth   int
	PreviewHeight  int
	PreviewQuality int
}

// DefaultConfig returns the built-in request defaults.
func DefaultConfig() Config {
	return Config{
		Version:        "dev",
		Suffix:         convert.DefaultSuffix,
		Quality:        convert.DefaultQuality,
		PreviewWidth:   400,
		PreviewHeight:  300,
		PreviewQuality: 75,
	}
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
	log  *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, cfg Config, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{deps: deps, cfg: cfg, log: log.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Conversion
	mux.HandleFunc("POST /api/v1/convert", s.convert)

	// Inventory
	mux.HandleFunc("POST /api/v1/scan", s.scan)
	mux.HandleFunc("POST /api/v1/resolve-paths", s.resolvePaths)
	mux.HandleFunc("POST /api/v1/resolve-files", s.resolveFiles)
	mux.HandleFunc("GET /api/v1/preview", s.preview)

	// System
	mux.HandleFunc("GET /api/v1/events", s.requireBus(s.streamEvents))
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		Events:  s.deps.Bus != nil,
	}
	if s.deps.Stats != nil {
		totals := s.deps.Stats.Snapshot()
		resp.Totals = &totals
	}
	writeJSON(w, http.StatusOK, resp)
}
