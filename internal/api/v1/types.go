// internal/api/v1/types.go
package v1

import (
	"github.com/vmunix/pixopt/internal/convert"
	"github.com/vmunix/pixopt/internal/handlers"
	"github.com/vmunix/pixopt/internal/inventory"
)

// convertRequest is the body of POST /convert. Pointer fields distinguish
// "absent" from an explicit zero value.
type convertRequest struct {
	Jobs         []jobRequest `json:"jobs"`
	OutputSuffix *string      `json:"output_suffix"`
	OutputFolder *string      `json:"output_folder"`
	Overwrite    bool         `json:"overwrite"`
}

type jobRequest struct {
	Path    string `json:"path"`
	Width   *int   `json:"width"`
	Quality *int   `json:"quality"`
	Format  string `json:"format"`
	Skip    bool   `json:"skip"`
	NoPath  bool   `json:"no_path"`
	Name    string `json:"name"`
}

// convertResponse is the response for POST /convert.
type convertResponse struct {
	Results []convert.Outcome `json:"results"`
}

type scanRequest struct {
	Folder    string `json:"folder"`
	Recursive *bool  `json:"recursive"`
}

// imagesResponse is the response for POST /scan and POST /resolve-files.
type imagesResponse struct {
	Images  []inventory.ImageInfo `json:"images"`
	Folder  *string               `json:"folder"`
	Skipped int                   `json:"skipped,omitempty"`
}

type resolvePathsRequest struct {
	Filenames []string `json:"filenames"`
	Folder    string   `json:"folder"`
}

type resolvePathsResponse struct {
	Resolved map[string]string `json:"resolved"`
	Folder   string            `json:"folder"`
}

type statusResponse struct {
	Status  string           `json:"status"`
	Version string           `json:"version"`
	Events  bool             `json:"events"`
	Totals  *handlers.Totals `json:"totals,omitempty"`
}
