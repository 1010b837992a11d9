// Package convert runs batches of image conversion jobs.
package convert

//go:generate mockgen -source=runner.go -destination=mocks/mock_codec.go -package=mocks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/pixopt/internal/events"
	"github.com/vmunix/pixopt/internal/imaging"
)

// Codec decodes, resamples and encodes rasters.
type Codec interface {
	Decode(path string) (*imaging.Raster, error)
	Resize(r *imaging.Raster, width, height int) (*imaging.Raster, error)
	Encode(r *imaging.Raster, c imaging.Container, quality int, dest string) error
}

// Publisher receives progress events. *events.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Config for the runner.
type Config struct {
	// Workers bounds how many jobs run at once. Zero or negative means one
	// per CPU.
	Workers int
}

// Runner converts batches of jobs on a bounded worker pool.
type Runner struct {
	codec   Codec
	workers int
	bus     Publisher // nil if progress is not observed
	log     *slog.Logger
	batches atomic.Int64
}

// NewRunner creates a runner. A nil codec uses imaging.Codec.
func NewRunner(codec Codec, cfg Config, log *slog.Logger) *Runner {
	if codec == nil {
		codec = imaging.Codec{}
	}
	if log == nil {
		log = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{codec: codec, workers: workers, log: log}
}

// SetPublisher configures where progress events are sent.
func (r *Runner) SetPublisher(p Publisher) {
	r.bus = p
}

// Run processes jobs and returns one outcome per job in input order.
//
// Jobs are independent: a failing job never stops the others. Canceling ctx
// marks the jobs that have not started yet as failed; running jobs finish.
// Two jobs that resolve to the same destination overwrite each other in
// completion order, so Run logs a warning when it sees that up front.
func (r *Runner) Run(ctx context.Context, jobs []Job, opts Options) []Outcome {
	batch := r.batches.Add(1)
	start := time.Now()
	log := r.log.With("batch", batch)
	log.Info("conversion started", "jobs", len(jobs), "workers", r.workers, "overwrite", opts.Overwrite)

	r.warnCollisions(log, jobs, opts)
	r.publish(ctx, &events.ConversionStarted{
		BaseEvent: events.NewBaseEvent(events.EventConversionStarted, events.EntityBatch, batch),
		Jobs:      len(jobs),
	})

	outcomes := make([]Outcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range jobs {
		g.Go(func() error {
			out := r.runJob(ctx, log, jobs[i], opts)
			outcomes[i] = out
			r.publish(ctx, &events.JobCompleted{
				BaseEvent: events.NewBaseEvent(events.EventJobCompleted, events.EntityBatch, batch),
				Index:     i,
				Name:      out.Name,
				Status:    string(out.Status),
				Output:    out.Output,
				Error:     out.Error,
			})
			return nil
		})
	}
	_ = g.Wait()

	done := &events.ConversionFinished{
		BaseEvent:  events.NewBaseEvent(events.EventConversionFinished, events.EntityBatch, batch),
		DurationMs: time.Since(start).Milliseconds(),
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusOK:
			done.OK++
		case StatusSkipped:
			done.Skipped++
		default:
			done.Failed++
		}
	}
	r.publish(ctx, done)

	log.Info("conversion complete",
		"ok", done.OK,
		"skipped", done.Skipped,
		"failed", done.Failed,
		"duration_ms", done.DurationMs,
	)
	return outcomes
}

// runJob drives a single job to a terminal outcome. Panics raised while
// decoding or encoding become error outcomes.
func (r *Runner) runJob(ctx context.Context, log *slog.Logger, job Job, opts Options) (out Outcome) {
	name := job.displayName()
	defer func() {
		if p := recover(); p != nil {
			log.Error("job panicked", "job", name, "panic", p)
			out = errorOutcome(name, fmt.Errorf("%v", p))
		}
	}()

	if job.Skip {
		return Outcome{Name: name, Status: StatusSkipped}
	}
	if job.NoPath || job.Path == "" {
		// Reported by the client-supplied label; a path here is not trusted.
		label := job.Name
		if label == "" {
			label = "?"
		}
		return errorOutcome(label, ErrPathMissing)
	}
	if info, err := os.Stat(job.Path); err != nil || !info.Mode().IsRegular() {
		return errorOutcome(name, ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return errorOutcome(name, fmt.Errorf("conversion canceled: %w", err))
	}

	start := time.Now()
	dest, size, err := r.convert(job, opts)
	if err != nil {
		log.Warn("job failed", "job", name, "path", job.Path, "error", err)
		return errorOutcome(name, err)
	}
	log.Debug("job converted", "job", name, "dest", dest, "size_bytes", size, "duration_ms", time.Since(start).Milliseconds())
	return okOutcome(name, dest, imaging.KB(size))
}

// convert decodes, resizes and re-encodes one source file.
func (r *Runner) convert(job Job, opts Options) (string, int64, error) {
	raster, err := r.codec.Decode(job.Path)
	if err != nil {
		return "", 0, err
	}

	if size, ok := ComputeSize(raster.Width(), raster.Height(), job.Width); ok {
		raster, err = r.codec.Resize(raster, size.Width, size.Height)
		if err != nil {
			return "", 0, err
		}
	}

	container, ext := ResolveFormat(job.Format, filepath.Ext(job.Path), raster.Format)
	dest := OutputPath(job.Path, opts, ext)

	quality := job.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	if err := r.codec.Encode(raster, container, quality, dest); err != nil {
		return "", 0, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return "", 0, fmt.Errorf("stat output: %w", err)
	}
	return dest, info.Size(), nil
}

// warnCollisions logs jobs whose destinations coincide. The extension never
// depends on the decoded container, so destinations are known before decoding.
func (r *Runner) warnCollisions(log *slog.Logger, jobs []Job, opts Options) {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		if job.Skip || job.NoPath || job.Path == "" {
			continue
		}
		_, ext := ResolveFormat(job.Format, filepath.Ext(job.Path), "")
		dest := OutputPath(job.Path, opts, ext)
		if prev, ok := seen[dest]; ok {
			log.Warn("jobs share a destination, last write wins", "dest", dest, "first", prev, "second", i)
			continue
		}
		seen[dest] = i
	}
}

func (r *Runner) publish(ctx context.Context, e events.Event) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, e); err != nil {
		r.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}
