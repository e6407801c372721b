// Package engine runs the falling-sand simulation and publishes immutable
// snapshots of its state to a single observer.
//
// All grid mutation happens on the goroutine executing Run. Other goroutines
// talk to the engine through Advance, Pause, Resume, Reset and the pointer and
// tone setters, none of which block.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"falling-sand/internal/core"
	"falling-sand/internal/sims/sand"
)

// ErrAlreadyRunning is returned by Run when another Run call is active.
var ErrAlreadyRunning = errors.New("engine: already running")

// Rule mutates the grid once per tick.
type Rule interface {
	Step(g *core.Grid) error
}

// State is a snapshot of the engine published once per tick. It is never
// modified after publication.
type State struct {
	Grid core.View

	Paused         bool
	AvgFrameTimeMs float64
	AvgFPS         float64

	Pointer    core.PointerState
	Saturation float64
	Lightness  float64

	// Hue is the cursor that the next injected particle will use.
	Hue int
	// Tick counts completed simulation ticks.
	Tick      uint64
	Timestamp time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for frame timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for lifecycle and failure messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRule replaces the physics rule applied each tick.
func WithRule(r Rule) Option {
	return func(e *Engine) {
		if r != nil {
			e.rule = r
		}
	}
}

type subscription struct {
	fn func(State)
}

type tickFailure struct {
	err error
}

// Engine owns the grid and drives ticks in response to advance signals.
type Engine struct {
	cfg   Config
	log   *slog.Logger
	now   func() time.Time
	epoch time.Time

	// Owned by the Run goroutine.
	grid      *core.Grid
	published *core.Grid
	rule      Rule
	timer     *core.FrameTimer
	hue       int
	ticks     uint64

	running      atomic.Bool
	paused       atomic.Bool
	resetPending atomic.Bool
	pointer    atomic.Pointer[core.PointerState]
	saturation atomic.Uint64
	lightness  atomic.Uint64

	advanceCh chan struct{}
	resetCh   chan struct{}

	observer atomic.Pointer[subscription]
	snapshot atomic.Pointer[State]
	lastErr  atomic.Pointer[tickFailure]
	failures atomic.Uint64
}

// New constructs a paused engine with an empty grid.
func New(cfg Config, opts ...Option) (*Engine, error) {
	grid, err := core.NewGrid(cfg.Cols, cfg.Rows)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	rng := core.NewRNG(cfg.Seed)
	e := &Engine{
		cfg:       cfg,
		log:       slog.Default(),
		now:       time.Now,
		grid:      grid,
		rule:      sand.New(rng),
		advanceCh: make(chan struct{}, 1),
		resetCh:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}

	if cfg.InitialHue < 0 {
		e.hue = rng.IntN(core.HueRange)
	} else {
		e.hue = cfg.InitialHue % core.HueRange
	}
	e.epoch = e.now()
	e.timer = core.NewFrameTimer(cfg.FrameWindow, 0)
	e.paused.Store(true)
	e.pointer.Store(&core.PointerState{Location: core.OffGrid})
	e.SetSaturation(cfg.Saturation)
	e.SetLightness(cfg.Lightness)

	e.publish(e.epoch, 0, 0)
	return e, nil
}

// Size returns the grid dimensions.
func (e *Engine) Size() core.Size { return e.grid.Size() }

// Run processes advance and reset signals until ctx is cancelled. Only one Run
// may be active at a time. A pending reset is always applied before the next
// tick. A tick that fails publishes nothing; consumers waiting for a snapshot
// can watch Failures and send a fresh Advance to retry.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.resetCh:
			if e.resetPending.Swap(false) {
				e.reset()
			}
		case <-e.advanceCh:
			if e.resetPending.Swap(false) {
				e.reset()
				continue
			}
			if e.paused.Load() {
				continue
			}
			if err := e.tick(); err != nil {
				e.lastErr.Store(&tickFailure{err: err})
				e.failures.Add(1)
				e.log.Error("tick aborted", "tick", e.ticks+1, "error", err)
			}
		}
	}
}

// Advance requests the next tick. It is the signal a consumer sends once it
// has finished with the previous snapshot. Requests made while one is already
// pending are merged, and requests made while paused are ignored.
func (e *Engine) Advance() {
	select {
	case e.advanceCh <- struct{}{}:
	default:
	}
}

// Pause stops the simulation. A tick already in progress completes and
// publishes a snapshot marked as paused.
func (e *Engine) Pause() {
	if e.paused.CompareAndSwap(false, true) {
		e.log.Debug("engine paused")
	}
}

// Resume restarts a paused simulation and requests a tick immediately.
func (e *Engine) Resume() {
	if e.paused.CompareAndSwap(true, false) {
		e.log.Debug("engine resumed")
		e.Advance()
	}
}

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool { return e.paused.Load() }

// Reset empties the grid. Pause state, hue cursor and frame timing are kept.
// A snapshot of the cleared grid is published as soon as Run picks the request
// up, whether or not the engine is paused, and ahead of any queued advance. A
// tick already under way clears its grid before publishing.
func (e *Engine) Reset() {
	e.resetPending.Store(true)
	select {
	case e.resetCh <- struct{}{}:
	default:
	}
}

// Subscribe registers fn as the only observer, replacing any previous one.
// fn runs on the Run goroutine after every publication and must not block;
// calling Advance from it is safe because Advance only queues a request. The
// returned function removes fn if it is still the registered observer.
// Subscribing nil removes the current observer.
func (e *Engine) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		e.observer.Store(nil)
		return func() {}
	}
	sub := &subscription{fn: fn}
	e.observer.Store(sub)
	return func() {
		e.observer.CompareAndSwap(sub, nil)
	}
}

// Snapshot returns the most recently published state.
func (e *Engine) Snapshot() State { return *e.snapshot.Load() }

// Failures counts ticks aborted since the engine was created.
func (e *Engine) Failures() uint64 { return e.failures.Load() }

// LastError returns the error that aborted the most recent failed tick.
func (e *Engine) LastError() error {
	if f := e.lastErr.Load(); f != nil {
		return f.err
	}
	return nil
}

// SetPointerDown records the pointer button state.
func (e *Engine) SetPointerDown(down bool) {
	e.updatePointer(func(p *core.PointerState) { p.Down = down })
}

// SetPointerLocation records the pointer position in grid coordinates.
// Positions outside the grid mean the pointer is not over it.
func (e *Engine) SetPointerLocation(loc core.Coordinate) {
	e.updatePointer(func(p *core.PointerState) { p.Location = loc })
}

// Pointer returns the latest pointer state.
func (e *Engine) Pointer() core.PointerState { return *e.pointer.Load() }

func (e *Engine) updatePointer(mutate func(*core.PointerState)) {
	for {
		old := e.pointer.Load()
		next := *old
		mutate(&next)
		if e.pointer.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetSaturation sets the saturation of newly injected particles. Values are
// stored as given.
func (e *Engine) SetSaturation(v float64) { e.saturation.Store(math.Float64bits(v)) }

// SetLightness sets the lightness of newly injected particles. Values are
// stored as given.
func (e *Engine) SetLightness(v float64) { e.lightness.Store(math.Float64bits(v)) }

// Saturation returns the current particle saturation.
func (e *Engine) Saturation() float64 { return math.Float64frombits(e.saturation.Load()) }

// Lightness returns the current particle lightness.
func (e *Engine) Lightness() float64 { return math.Float64frombits(e.lightness.Load()) }

func (e *Engine) tone() sand.Tone {
	return sand.Tone{Saturation: e.Saturation(), Lightness: e.Lightness()}
}

// tick runs physics then injection and publishes the result. On failure the
// grid is restored from the last published snapshot and nothing is published.
func (e *Engine) tick() error {
	now := e.now()

	if err := e.rule.Step(e.grid); err != nil {
		return e.rollback(fmt.Errorf("physics: %w", err))
	}
	hue, err := sand.Inject(e.grid, e.Pointer(), e.hue, e.tone())
	if err != nil {
		return e.rollback(fmt.Errorf("inject: %w", err))
	}

	e.hue = hue
	e.ticks++
	avgMs, fps := e.timer.RecordTick(e.millis(now))
	if e.resetPending.Swap(false) {
		e.grid.Clear()
		e.log.Info("grid reset", "tick", e.ticks, "paused", e.paused.Load())
	}
	e.publish(now, avgMs, fps)
	return nil
}

func (e *Engine) rollback(cause error) error {
	if err := e.grid.CopyFrom(e.published); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (e *Engine) reset() {
	e.grid.Clear()
	e.log.Info("grid reset", "tick", e.ticks, "paused", e.paused.Load())
	avgMs, fps := e.timer.Average()
	e.publish(e.now(), avgMs, fps)
}

func (e *Engine) publish(now time.Time, avgMs, fps float64) {
	published := e.grid.Clone()
	s := &State{
		Grid:           published.View(),
		Paused:         e.paused.Load(),
		AvgFrameTimeMs: avgMs,
		AvgFPS:         fps,
		Pointer:        e.Pointer(),
		Saturation:     e.Saturation(),
		Lightness:      e.Lightness(),
		Hue:            e.hue,
		Tick:           e.ticks,
		Timestamp:      now,
	}
	e.published = published
	e.snapshot.Store(s)
	if sub := e.observer.Load(); sub != nil {
		sub.fn(*s)
	}
}

func (e *Engine) millis(t time.Time) float64 {
	return float64(t.Sub(e.epoch)) / float64(time.Millisecond)
}
