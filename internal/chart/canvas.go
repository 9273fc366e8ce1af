package chart

import (
	"log/slog"
	"sync"

	"fintrack/internal/balance"
	"fintrack/internal/ledger"
)

// Canvas owns the chart currently shown. Each Draw destroys the previous chart
// and creates a new one; charts are never updated in place.
type Canvas struct {
	mu       sync.Mutex
	current  *Chart
	revision uint64
	drawn    bool
	draws    int
	logger   *slog.Logger
}

func NewCanvas(logger *slog.Logger) *Canvas {
	if logger == nil {
		logger = slog.Default()
	}
	return &Canvas{logger: logger.With("component", "chart")}
}

// Draw replaces the current chart with one built from s.
func (c *Canvas) Draw(s balance.Series) *Chart {
	next := New(s)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(next, s.Len())
	return next
}

// DrawRevision draws s only if revision is newer than the chart on the canvas.
// Ledger events can arrive out of order when mutations race; older ones are
// dropped. It reports whether the canvas changed.
func (c *Canvas) DrawRevision(revision uint64, s balance.Series) bool {
	next := New(s)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drawn && revision <= c.revision {
		c.logger.Debug("Stale ledger event dropped", "revision", revision, "current_revision", c.revision)
		return false
	}
	c.revision = revision
	c.drawn = true
	c.replaceLocked(next, s.Len())
	return true
}

func (c *Canvas) replaceLocked(next *Chart, points int) {
	if c.current != nil {
		c.current.Destroy()
	}
	c.current = next
	c.draws++
	c.logger.Debug("Chart redrawn", "points", points, "draws", c.draws, "revision", c.revision)
}

// Current returns the chart on the canvas, or nil before the first Draw.
func (c *Canvas) Current() *Chart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// JSON encodes the chart on the canvas. ok is false before the first Draw.
func (c *Canvas) JSON() (body []byte, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, false, nil
	}
	body, err = c.current.JSON()
	return body, true, err
}

// Revision is the ledger revision of the chart on the canvas.
func (c *Canvas) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// LedgerChanged redraws from the event's snapshot, seeded with the store's
// starting balance.
func (c *Canvas) LedgerChanged(ev ledger.Event) {
	snap := ev.Snapshot
	c.DrawRevision(snap.Revision, balance.Compute(snap.Transactions, snap.StartingBalance))
}

// Attach draws the store's current state and subscribes to its changes.
func (c *Canvas) Attach(store *ledger.Store) (detach func()) {
	snap := store.Snapshot()
	c.DrawRevision(snap.Revision, balance.Compute(snap.Transactions, snap.StartingBalance))
	return store.Subscribe(c)
}

// Draws counts charts created on this canvas.
func (c *Canvas) Draws() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draws
}
