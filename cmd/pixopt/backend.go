package main

import (
	"context"
	"log/slog"

	"github.com/vmunix/pixopt/internal/convert"
	"github.com/vmunix/pixopt/internal/inventory"
)

// backend runs scans and conversions either in-process or on a server.
type backend interface {
	Scan(ctx context.Context, folder string, recursive bool) (*inventory.Result, error)
	Convert(ctx context.Context, jobs []convert.Job, opts convert.Options) ([]convert.Outcome, error)
}

type localBackend struct {
	scanner *inventory.Scanner
	runner  *convert.Runner
}

func newLocalBackend(workers int, extensions []string, log *slog.Logger) *localBackend {
	return &localBackend{
		scanner: inventory.NewScanner(inventory.Config{Extensions: extensions}, log.With("component", "inventory")),
		runner:  convert.NewRunner(nil, convert.Config{Workers: workers}, log.With("component", "convert")),
	}
}

func (b *localBackend) Scan(_ context.Context, folder string, recursive bool) (*inventory.Result, error) {
	return b.scanner.Scan(folder, recursive)
}

func (b *localBackend) Convert(ctx context.Context, jobs []convert.Job, opts convert.Options) ([]convert.Outcome, error) {
	return b.runner.Run(ctx, jobs, opts), nil
}

type remoteBackend struct {
	client *Client
}

func (b *remoteBackend) Scan(ctx context.Context, folder string, recursive bool) (*inventory.Result, error) {
	resp, err := b.client.Scan(ctx, folder, recursive)
	if err != nil {
		return nil, err
	}
	res := &inventory.Result{Folder: folder, Images: resp.Images, Skipped: resp.Skipped}
	if resp.Folder != nil {
		res.Folder = *resp.Folder
	}
	return res, nil
}

func (b *remoteBackend) Convert(ctx context.Context, jobs []convert.Job, opts convert.Options) ([]convert.Outcome, error) {
	resp, err := b.client.Convert(ctx, newConvertRequest(jobs, opts))
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
