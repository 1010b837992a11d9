package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vmunix/pixopt/internal/convert"
	"github.com/vmunix/pixopt/internal/inventory"
)

// Client wraps HTTP calls to the pixoptd server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new pixopt API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			// Large batches convert synchronously inside one request.
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Response types

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Events  bool   `json:"events"`
}

type JobRequest struct {
	Path    string `json:"path,omitempty"`
	Width   *int   `json:"width,omitempty"`
	Quality *int   `json:"quality,omitempty"`
	Format  string `json:"format,omitempty"`
	Skip    bool   `json:"skip,omitempty"`
	NoPath  bool   `json:"no_path,omitempty"`
	Name    string `json:"name,omitempty"`
}

type ConvertRequest struct {
	Jobs         []JobRequest `json:"jobs"`
	OutputSuffix *string      `json:"output_suffix"`
	OutputFolder *string      `json:"output_folder,omitempty"`
	Overwrite    bool         `json:"overwrite"`
}

type ConvertResponse struct {
	Results []convert.Outcome `json:"results"`
}

type ScanResponse struct {
	Images  []inventory.ImageInfo `json:"images"`
	Folder  *string               `json:"folder"`
	Skipped int                   `json:"skipped"`
}

// API methods

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Scan(ctx context.Context, folder string, recursive bool) (*ScanResponse, error) {
	req := map[string]any{"folder": folder, "recursive": recursive}
	var resp ScanResponse
	if err := c.post(ctx, "/api/v1/scan", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Convert(ctx context.Context, req *ConvertRequest) (*ConvertResponse, error) {
	var resp ConvertResponse
	if err := c.post(ctx, "/api/v1/convert", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// newConvertRequest encodes jobs and run options for the wire.
func newConvertRequest(jobs []convert.Job, opts convert.Options) *ConvertRequest {
	req := &ConvertRequest{
		Jobs:         make([]JobRequest, len(jobs)),
		OutputSuffix: &opts.Suffix,
		Overwrite:    opts.Overwrite,
	}
	if opts.OutputFolder != "" {
		req.OutputFolder = &opts.OutputFolder
	}
	for i, j := range jobs {
		jr := JobRequest{
			Path:   j.Path,
			Format: j.Format.String(),
			Skip:   j.Skip,
			NoPath: j.NoPath,
			Name:   j.Name,
		}
		if j.Width > 0 {
			w := j.Width
			jr.Width = &w
		}
		if j.Quality > 0 {
			q := j.Quality
			jr.Quality = &q
		}
		req.Jobs[i] = jr
	}
	return req
}
