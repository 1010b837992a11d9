// internal/handlers/stats.go
package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/pixopt/internal/events"
)

// Totals are the cumulative conversion counters since the server started.
type Totals struct {
	Batches      int64      `json:"batches"`
	Active       int        `json:"active"`
	OK           int        `json:"ok"`
	Skipped      int        `json:"skipped"`
	Failed       int        `json:"failed"`
	LastFinished *time.Time `json:"last_finished,omitempty"`
}

// StatsHandler tallies conversion batches from bus events.
//
// Started and finished events arrive on separate channels, so a batch's
// finish may be seen before its start. Active is derived from the two
// counts and settles once both have been processed.
type StatsHandler struct {
	*BaseHandler
	started  <-chan events.Event
	finished <-chan events.Event

	mu       sync.RWMutex
	totals   Totals
	finishes int64
}

// NewStatsHandler creates a stats handler. It subscribes here so no batch
// is missed between construction and Start.
func NewStatsHandler(bus *events.Bus, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler: NewBaseHandler(bus, logger),
		started:     bus.Subscribe(events.EventConversionStarted, 100),
		finished:    bus.Subscribe(events.EventConversionFinished, 100),
	}
}

// Name returns the handler name.
func (h *StatsHandler) Name() string {
	return "stats"
}

// Start begins processing events.
func (h *StatsHandler) Start(ctx context.Context) error {
	started, finished := h.started, h.finished
	for started != nil || finished != nil {
		select {
		case e, ok := <-started:
			if !ok {
				started = nil
				continue
			}
			if ev, ok := e.(*events.ConversionStarted); ok {
				h.handleStarted(ev)
			}
		case e, ok := <-finished:
			if !ok {
				finished = nil
				continue
			}
			if ev, ok := e.(*events.ConversionFinished); ok {
				h.handleFinished(ev)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil // Channels closed
}

func (h *StatsHandler) handleStarted(_ *events.ConversionStarted) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.totals.Batches++
}

func (h *StatsHandler) handleFinished(e *events.ConversionFinished) {
	h.mu.Lock()
	h.finishes++
	h.totals.OK += e.OK
	h.totals.Skipped += e.Skipped
	h.totals.Failed += e.Failed
	at := e.OccurredAt()
	h.totals.LastFinished = &at
	h.mu.Unlock()

	h.Logger().Debug("batch tallied",
		"batch", e.EntityID(),
		"ok", e.OK,
		"skipped", e.Skipped,
		"failed", e.Failed)
}

// Snapshot returns a copy of the current totals.
func (h *StatsHandler) Snapshot() Totals {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t := h.totals
	if active := t.Batches - h.finishes; active > 0 {
		t.Active = int(active)
	}
	if t.LastFinished != nil {
		at := *t.LastFinished
		t.LastFinished = &at
	}
	return t
}
