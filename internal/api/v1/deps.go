package v1

//go:generate mockgen -source=deps.go -destination=mocks/mock_deps.go -package=mocks

import (
	"context"
	"errors"

	"github.com/vmunix/pixopt/internal/convert"
	"github.com/vmunix/pixopt/internal/events"
	"github.com/vmunix/pixopt/internal/handlers"
	"github.com/vmunix/pixopt/internal/inventory"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Converter runs conversion batches. *convert.Runner satisfies it.
type Converter interface {
	Run(ctx context.Context, jobs []convert.Job, opts convert.Options) []convert.Outcome
}

// Inventory lists and locates images on disk. *inventory.Scanner satisfies it.
type Inventory interface {
	Scan(folder string, recursive bool) (*inventory.Result, error)
	Resolve(folder string, names []string) (map[string]string, error)
}

// StatsSource reports cumulative conversion totals. *handlers.StatsHandler
// satisfies it.
type StatsSource interface {
	Snapshot() handlers.Totals
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Converter Converter
	Inventory Inventory

	// Optional dependencies (nil if not configured)
	Bus   *events.Bus // progress streaming over /events
	Stats StatsSource // totals reported by /status
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Converter == nil {
		return errors.New("converter is required")
	}
	if d.Inventory == nil {
		return errors.New("inventory is required")
	}
	return nil
}
