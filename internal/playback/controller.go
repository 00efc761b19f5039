// Package playback drives the timeline cursor: manual navigation over the
// available dates plus a timed auto-advance that re-renders the dashboard on
// every step.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"covidash/internal/dashboard"
)

// DefaultInterval is the auto-advance period.
const DefaultInterval = time.Second

// State is the playback state.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a consistent view of the controller.
type Snapshot struct {
	Index int
	Date  string
	Len   int
	State State
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the auto-advance period.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithScheduler replaces the ticker-based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithLogger sets the logger that receives swallowed render errors.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// Controller owns the date cursor and the play state. All methods are safe
// for concurrent use; renders run outside the lock.
type Controller struct {
	src      dashboard.DataSource
	port     dashboard.Port
	filters  FilterSource
	sched    Scheduler
	interval time.Duration
	log      *slog.Logger

	loadMu sync.Mutex // serializes Load so the date list is fetched once

	mu     sync.Mutex
	dates  []string
	loaded bool
	idx    int
	state  State
	timer  Timer  // non-nil exactly when state == Playing
	gen    uint64 // bumped on every play/stop; stale ticks compare against it
}

// NewController creates a stopped controller with an empty date list.
func NewController(src dashboard.DataSource, port dashboard.Port, filters FilterSource, opts ...Option) *Controller {
	c := &Controller{
		src:      src,
		port:     port,
		filters:  filters,
		sched:    TickerScheduler{},
		interval: DefaultInterval,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Load fetches the date list once. Concurrent callers wait for the first
// fetch; later calls are no-ops. A failed fetch is retried by the next call.
func (c *Controller) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}

	resp, err := c.src.Dates(ctx)
	if err != nil {
		return fmt.Errorf("loading dates: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = resp.Dates
	c.idx = 0
	c.loaded = true
	return nil
}

// Start loads the dates and renders both pages at the first date. Render
// failures are logged; only a failure to load dates is returned.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	if c.Snapshot().Len == 0 {
		c.log.Warn("no dates available")
	}
	c.RefreshTimeline(ctx)
	c.RefreshAnalysis(ctx)
	return nil
}

// Close stops playback.
func (c *Controller) Close() { c.Stop() }

// Snapshot returns the current cursor and state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{Index: c.idx, Len: len(c.dates), State: c.state}
	if c.idx < len(c.dates) {
		s.Date = c.dates[c.idx]
	}
	return s
}

// Dates returns a copy of the loaded date list.
func (c *Controller) Dates() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.dates...)
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// Next moves the cursor forward one date and renders. At the last date it
// does nothing and reports false.
func (c *Controller) Next(ctx context.Context) bool {
	return c.step(ctx, +1)
}

// Prev moves the cursor back one date and renders. At the first date it
// does nothing and reports false.
func (c *Controller) Prev(ctx context.Context) bool {
	return c.step(ctx, -1)
}

func (c *Controller) step(ctx context.Context, delta int) bool {
	c.mu.Lock()
	next := c.idx + delta
	if next < 0 || next >= len(c.dates) {
		c.mu.Unlock()
		return false
	}
	c.idx = next
	date := c.dates[next]
	c.mu.Unlock()

	c.renderTimeline(ctx, date)
	return true
}

// Seek moves the cursor to i, clamped into range, and renders. It reports
// false only when no dates are loaded. Seeking does not change the play
// state.
func (c *Controller) Seek(ctx context.Context, i int) bool {
	c.mu.Lock()
	if len(c.dates) == 0 {
		c.mu.Unlock()
		return false
	}
	c.idx = clamp(i, 0, len(c.dates)-1)
	date := c.dates[c.idx]
	c.mu.Unlock()

	c.renderTimeline(ctx, date)
	return true
}

// First seeks to the first date.
func (c *Controller) First(ctx context.Context) bool { return c.Seek(ctx, 0) }

// Last seeks to the last date.
func (c *Controller) Last(ctx context.Context) bool {
	return c.Seek(ctx, c.Snapshot().Len-1)
}

// ---------------------------------------------------------------------------
// Playback
// ---------------------------------------------------------------------------

// Play starts auto-advance. It reports false when already playing, when no
// dates are loaded, or when the cursor is on the last date.
func (c *Controller) Play(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Playing || len(c.dates) == 0 || c.idx >= len(c.dates)-1 {
		return false
	}
	c.gen++
	gen := c.gen
	c.state = Playing
	c.timer = c.sched.Every(c.interval, func() { c.tick(ctx, gen) })
	c.log.Debug("playback started", "index", c.idx, "interval", c.interval)
	return true
}

// Stop halts auto-advance. No tick scheduled before Stop returns will move
// the cursor afterwards. It reports false when already stopped.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return false
	}
	c.stopLocked()
	return true
}

// TogglePlay switches between playing and stopped and returns the new state.
func (c *Controller) TogglePlay(ctx context.Context) State {
	if c.Stop() {
		return Stopped
	}
	c.Play(ctx)
	return c.Snapshot().State
}

func (c *Controller) stopLocked() {
	c.gen++
	c.state = Stopped
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.log.Debug("playback stopped", "index", c.idx)
}

func (c *Controller) tick(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if c.state != Playing || gen != c.gen {
		c.mu.Unlock()
		return
	}
	last := len(c.dates) - 1
	if c.idx < last {
		c.idx++
	}
	if c.idx >= last {
		c.stopLocked()
	}
	date := c.dates[c.idx]
	c.mu.Unlock()

	c.renderTimeline(ctx, date)
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// RefreshTimeline re-renders the timeline page at the current date, for
// example after a selector change.
func (c *Controller) RefreshTimeline(ctx context.Context) {
	snap := c.Snapshot()
	if snap.Len == 0 {
		return
	}
	c.renderTimeline(ctx, snap.Date)
}

// RefreshAnalysis re-renders the analysis page.
func (c *Controller) RefreshAnalysis(ctx context.Context) {
	if err := dashboard.RenderAnalysis(ctx, c.src, c.port, c.filters.AnalysisFilters()); err != nil {
		c.log.Error("updating analysis data", "error", err)
	}
}

func (c *Controller) renderTimeline(ctx context.Context, date string) {
	if err := dashboard.RenderTimeline(ctx, c.src, c.port, date, c.filters.TimelineFilters()); err != nil {
		c.log.Error("updating timeline data", "date", date, "error", err)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
