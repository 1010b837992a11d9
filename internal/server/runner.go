// Package server assembles the daemon's components and runs them until
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "github.com/vmunix/pixopt/internal/api/v1"
	"github.com/vmunix/pixopt/internal/convert"
	"github.com/vmunix/pixopt/internal/events"
	"github.com/vmunix/pixopt/internal/handlers"
	"github.com/vmunix/pixopt/internal/inventory"
)

// Config for the daemon.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	// Workers bounds concurrent conversions; zero means one per CPU.
	Workers    int
	Extensions []string

	API v1.Config
}

// Runner manages the HTTP server and the components behind it.
type Runner struct {
	config Config
	logger *slog.Logger
	ready  chan net.Addr
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	return &Runner{
		config: cfg,
		logger: logger,
		ready:  make(chan net.Addr, 1),
	}
}

// Ready delivers the listening address once the server accepts connections.
func (r *Runner) Ready() <-chan net.Addr {
	return r.ready
}

// components are the pieces Run supervises.
type components struct {
	handler http.Handler
	bus     *events.Bus
	stats   *handlers.StatsHandler
}

func (r *Runner) build() (*components, error) {
	bus := events.NewBus(r.logger.With("component", "bus"))
	stats := handlers.NewStatsHandler(bus, r.logger.With("component", "stats"))

	conv := convert.NewRunner(nil, convert.Config{Workers: r.config.Workers}, r.logger.With("component", "convert"))
	conv.SetPublisher(bus)

	scanner := inventory.NewScanner(inventory.Config{Extensions: r.config.Extensions}, r.logger.With("component", "inventory"))

	api, err := v1.New(v1.ServerDeps{
		Converter: conv,
		Inventory: scanner,
		Bus:       bus,
		Stats:     stats,
	}, r.config.API, r.logger)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return &components{
		handler: logRequests(mux, r.logger.With("component", "http")),
		bus:     bus,
		stats:   stats,
	}, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (r *Runner) Run(ctx context.Context) error {
	c, err := r.build()
	if err != nil {
		return err
	}
	bus := c.bus

	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		_ = bus.Close()
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:           c.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	r.logger.Info("server starting",
		"addr", ln.Addr().String(),
		"workers", r.config.Workers,
		"default_format", r.config.API.Format.String(),
		"default_quality", r.config.API.Quality,
	)
	r.ready <- ln.Addr()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		r.logger.Debug("handler started", "handler", c.stats.Name())
		if err := c.stats.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s handler: %w", c.stats.Name(), err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		// Closing the bus ends open event streams so Shutdown can drain.
		_ = bus.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
