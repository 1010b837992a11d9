package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vmunix/pixopt/internal/convert"
)

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	jobs, err := s.buildJobs(req.Jobs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JOB", err.Error())
		return
	}

	opts := convert.Options{
		Suffix:       s.cfg.Suffix,
		OutputFolder: s.cfg.OutputFolder,
		Overwrite:    req.Overwrite,
	}
	if req.OutputSuffix != nil {
		opts.Suffix = *req.OutputSuffix
	}
	if req.OutputFolder != nil {
		opts.OutputFolder = strings.TrimSpace(*req.OutputFolder)
	}

	results := s.deps.Converter.Run(r.Context(), jobs, opts)
	writeJSON(w, http.StatusOK, convertResponse{Results: results})
}

// buildJobs applies request defaults and rejects the whole batch when any
// job carries a value the pipeline cannot interpret.
func (s *Server) buildJobs(reqs []jobRequest) ([]convert.Job, error) {
	jobs := make([]convert.Job, 0, len(reqs))
	for i, jr := range reqs {
		job := convert.Job{
			Path:    jr.Path,
			Quality: s.cfg.Quality,
			Format:  s.cfg.Format,
			Skip:    jr.Skip,
			NoPath:  jr.NoPath,
			Name:    jr.Name,
		}
		if job.Quality == 0 {
			job.Quality = convert.DefaultQuality
		}
		if jr.Width != nil {
			job.Width = *jr.Width
		}
		if jr.Quality != nil {
			job.Quality = *jr.Quality
		}
		if jr.Format != "" {
			f, err := convert.ParseFormat(jr.Format)
			if err != nil {
				return nil, fmt.Errorf("job %d: %w", i, err)
			}
			job.Format = f
		}
		if err := job.Validate(); err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
