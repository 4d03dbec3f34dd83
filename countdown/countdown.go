// Package countdown implements countdown timers whose end time lives in an
// external Store, so a restart resumes the clock instead of resetting it.
//
// A Countdown holds no timer of its own. Something outside calls Tick at a
// fixed interval and the countdown moves through its states:
//
//	Uninitialized -> Running -> Expired -> (cleared) -> Uninitialized
package countdown

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Keys used by the console for its two independent countdowns
const (
	MaintenanceKey = "maintenanceCountdownEnd"
	SyncKey        = "syncCountdownEnd"
)

// DefaultGrace is how long an expired countdown stays visible before its
// stored end time is cleared
const DefaultGrace = 5 * time.Second

// DefaultStoreTimeout bounds each Store call a Countdown makes
const DefaultStoreTimeout = 10 * time.Second

// State is the lifecycle position of a Countdown
type State int

const (
	Uninitialized State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "uninitialized"
	}
}

// Store persists countdown end times as decimal epoch milliseconds
type Store interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Option configures a Countdown
type Option func(*Countdown)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Countdown) {
		c.now = now
	}
}

// WithGrace sets how long Tick keeps reporting expiry before clearing the store
func WithGrace(grace time.Duration) Option {
	return func(c *Countdown) {
		if grace >= 0 {
			c.grace = grace
		}
	}
}

// WithStoreTimeout bounds each Store call by d. Zero leaves calls bounded
// only by the caller's context.
func WithStoreTimeout(d time.Duration) Option {
	return func(c *Countdown) {
		if d >= 0 {
			c.storeTimeout = d
		}
	}
}

// Countdown is a resumable timer bound to one key in a Store
type Countdown struct {
	mu           sync.Mutex
	key          string
	store        Store
	now          func() time.Time
	grace        time.Duration
	storeTimeout time.Duration
	state        State
	target       time.Time
}

// New creates a countdown persisted under key. A nil store falls back to an
// in-memory one.
func New(key string, store Store, opts ...Option) *Countdown {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Countdown{
		key:          key,
		store:        store,
		now:          time.Now,
		grace:        DefaultGrace,
		storeTimeout: DefaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the store key
func (c *Countdown) Key() string {
	return c.key
}

// Start resumes the stored end time when it is still in the future. Otherwise
// it stores now+duration and runs towards that.
func (c *Countdown) Start(ctx context.Context, duration time.Duration) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if target, ok, err := c.load(ctx); err != nil {
		return time.Time{}, err
	} else if ok && target.After(now) {
		c.state = Running
		c.target = target
		return target, nil
	}

	target := time.UnixMilli(now.Add(duration).UnixMilli())
	storeCtx, cancel := c.storeContext(ctx)
	defer cancel()
	if err := c.store.Save(storeCtx, c.key, formatMillis(target)); err != nil {
		return time.Time{}, fmt.Errorf("save countdown %s: %w", c.key, err)
	}
	c.state = Running
	c.target = target
	return target, nil
}

// Resume picks up a stored end time without creating one. It reports
// whether a countdown was found.
func (c *Countdown) Resume(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok, err := c.load(ctx)
	if err != nil || !ok {
		return false, err
	}
	c.target = target
	if target.After(c.now()) {
		c.state = Running
	} else {
		c.state = Expired
	}
	return true, nil
}

// Tick advances the state machine. It reports the time left and whether the
// countdown has expired. Once the grace window after expiry has passed the
// stored end time is deleted, exactly once, and later ticks report
// (0, false) until Start is called again.
func (c *Countdown) Tick(ctx context.Context) (time.Duration, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	switch c.state {
	case Uninitialized:
		return 0, false, nil
	case Running:
		if left := Remaining(c.target, now); left > 0 {
			return left, false, nil
		}
		c.state = Expired
	}

	if !now.Before(c.target.Add(c.grace)) {
		if err := c.delete(ctx); err != nil {
			return 0, true, fmt.Errorf("clear countdown %s: %w", c.key, err)
		}
		c.state = Uninitialized
		c.target = time.Time{}
	}
	return 0, true, nil
}

// Clear drops the stored end time and returns to Uninitialized
func (c *Countdown) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.delete(ctx); err != nil {
		return fmt.Errorf("clear countdown %s: %w", c.key, err)
	}
	c.state = Uninitialized
	c.target = time.Time{}
	return nil
}

// State returns the current state
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Target returns the end time, zero when uninitialized
func (c *Countdown) Target() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// View is a read-only picture of a countdown
type View struct {
	Key         string     `json:"key"`
	State       string     `json:"state"`
	Target      *time.Time `json:"target,omitempty"`
	RemainingMS int64      `json:"remainingMs"`
}

// Snapshot describes the countdown as of now
func (c *Countdown) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Key: c.key, State: c.state.String()}
	if c.state != Uninitialized {
		t := c.target
		v.Target = &t
		v.RemainingMS = Remaining(c.target, c.now()).Milliseconds()
	}
	return v
}

// Remaining returns the time between now and target, never negative
func Remaining(target, now time.Time) time.Duration {
	if d := target.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (c *Countdown) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.storeTimeout == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.storeTimeout)
}

func (c *Countdown) delete(ctx context.Context) error {
	ctx, cancel := c.storeContext(ctx)
	defer cancel()
	return c.store.Delete(ctx, c.key)
}

// load reads the stored end time. Malformed values count as absent.
func (c *Countdown) load(ctx context.Context) (time.Time, bool, error) {
	storeCtx, cancel := c.storeContext(ctx)
	defer cancel()
	raw, ok, err := c.store.Load(storeCtx, c.key)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load countdown %s: %w", c.key, err)
	}
	if !ok {
		return time.Time{}, false, nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// FormatClock renders d as m:ss, the way the update banner shows it
func FormatClock(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
