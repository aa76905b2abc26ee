package tracker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"prophase-overlay/internal/games"
)

// DefaultInterval is the time between two detections.
const DefaultInterval = 2000 * time.Millisecond

// Detector returns the game running right now, or games.None.
type Detector interface {
	Detect(ctx context.Context) games.ID
}

// Update is emitted on every confirmed change of the current game.
type Update struct {
	Game games.ID  `json:"game"`
	At   time.Time `json:"at"`
}

// Notifier receives updates. It is called synchronously from the polling
// goroutine, in tick order.
type Notifier func(ctx context.Context, update Update)

// Config holds the tracker timing settings
type Config struct {
	Interval   time.Duration
	Thresholds Thresholds
}

// Tracker polls a Detector on a fixed interval and announces debounced
// changes of the running game.
type Tracker struct {
	detector Detector
	notify   Notifier
	interval time.Duration
	th       Thresholds

	state   State // owned by Run
	current atomic.Value
	running atomic.Bool
}

// New creates a tracker. Zero config fields fall back to the defaults.
func New(cfg Config, detector Detector, notify Notifier) *Tracker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	def := DefaultThresholds()
	if cfg.Thresholds.Enter <= 0 {
		cfg.Thresholds.Enter = def.Enter
	}
	if cfg.Thresholds.Leave <= 0 {
		cfg.Thresholds.Leave = def.Leave
	}
	if notify == nil {
		notify = func(context.Context, Update) {}
	}

	t := &Tracker{
		detector: detector,
		notify:   notify,
		interval: cfg.Interval,
		th:       cfg.Thresholds,
	}
	t.current.Store(games.None)
	return t
}

// Current returns the last announced game. It is safe to call from any
// goroutine.
func (t *Tracker) Current() games.ID {
	return t.current.Load().(games.ID)
}

// IsRunning reports whether Run is active
func (t *Tracker) IsRunning() bool {
	return t.running.Load()
}

// Run polls until ctx is cancelled. The context is the cancellation token
// and is owned by the caller. A tick in progress is always completed; the
// wait after it is cut short by cancellation.
func (t *Tracker) Run(ctx context.Context) {
	if !t.running.CompareAndSwap(false, true) {
		logger.Warnf(ctx, "tracker is already running")
		return
	}
	defer t.running.Store(false)

	logger.Debugf(ctx, "tracker started (interval %v, enter %d, leave %d)", t.interval, t.th.Enter, t.th.Leave)
	defer logger.Debugf(ctx, "tracker stopped")

	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		t.tick(ctx)

		timer.Reset(t.interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

func (t *Tracker) tick(ctx context.Context) {
	detected := t.detector.Detect(ctx)
	if !t.state.Step(detected, t.th) {
		return
	}

	current := t.state.Current
	t.current.Store(current)
	if t.state.Active() {
		logger.Infof(ctx, "game detected: %s", current)
	} else {
		logger.Infof(ctx, "game closed")
	}
	t.notify(ctx, Update{Game: current, At: time.Now()})
}
