package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/dispatch-console/countdown"
	"github.com/linesmerrill/dispatch-console/models"
)

const (
	// BannerTTL is how long a broadcast message stays up
	BannerTTL = 24 * time.Hour

	defaultVersion         = "System"
	defaultDurationMinutes = 5
	bannerKey              = "broadcast"
)

// Admin holds the administrator-only features: the passcode gate, the
// broadcast banner and the maintenance countdown
type Admin struct {
	Maintenance *countdown.Countdown

	passHash []byte
	banner   *ttlcache.Cache[string, string]

	mu      sync.Mutex
	version string
}

// AdminOption configures an Admin
type AdminOption func(*adminOptions)

type adminOptions struct {
	bannerTTL  time.Duration
	countdowns []countdown.Option
}

// WithBannerTTL overrides BannerTTL
func WithBannerTTL(ttl time.Duration) AdminOption {
	return func(o *adminOptions) {
		o.bannerTTL = ttl
	}
}

// WithCountdownOptions passes options to the maintenance countdown
func WithCountdownOptions(opts ...countdown.Option) AdminOption {
	return func(o *adminOptions) {
		o.countdowns = append(o.countdowns, opts...)
	}
}

// NewAdmin hashes passcode and binds the maintenance countdown to store
func NewAdmin(passcode string, store countdown.Store, opts ...AdminOption) (*Admin, error) {
	o := adminOptions{bannerTTL: BannerTTL}
	for _, opt := range opts {
		opt(&o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin passcode: %w", err)
	}

	return &Admin{
		Maintenance: countdown.New(countdown.MaintenanceKey, store, o.countdowns...),
		passHash:    hash,
		banner:      ttlcache.New[string, string](ttlcache.WithTTL[string, string](o.bannerTTL)),
		version:     defaultVersion,
	}, nil
}

// CheckPasscode reports whether passcode opens the admin dashboard
func (a *Admin) CheckPasscode(passcode string) bool {
	return bcrypt.CompareHashAndPassword(a.passHash, []byte(passcode)) == nil
}

// Broadcast replaces the banner message
func (a *Admin) Broadcast(form models.BannerForm) error {
	msg := sanitize(form.Message)
	if msg == "" {
		return &ValidationError{Message: "Please enter a broadcast message.", Fields: []string{"message"}}
	}
	a.banner.Set(bannerKey, msg, ttlcache.DefaultTTL)
	return nil
}

// Banner returns the broadcast message while it has not expired
func (a *Admin) Banner() (string, bool) {
	item := a.banner.Get(bannerKey)
	if item == nil || item.IsExpired() {
		return "", false
	}
	return item.Value(), true
}

// PruneBanner evicts an expired broadcast message
func (a *Admin) PruneBanner() {
	a.banner.DeleteExpired()
}

// StartUpdate supersedes any running maintenance countdown with a fresh one
func (a *Admin) StartUpdate(ctx context.Context, form models.UpdateForm) (time.Time, error) {
	version := sanitize(form.Version)
	if version == "" {
		version = defaultVersion
	}
	minutes := form.DurationMinutes
	if minutes <= 0 {
		minutes = defaultDurationMinutes
	}

	if err := a.Maintenance.Clear(ctx); err != nil {
		return time.Time{}, err
	}
	target, err := a.Maintenance.Start(ctx, time.Duration(minutes)*time.Minute)
	if err != nil {
		return time.Time{}, err
	}

	a.mu.Lock()
	a.version = version
	a.mu.Unlock()
	return target, nil
}

// CancelUpdate stops the maintenance countdown
func (a *Admin) CancelUpdate(ctx context.Context) error {
	return a.Maintenance.Clear(ctx)
}

// Version returns the label of the current maintenance countdown
func (a *Admin) Version() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.version
}

// UpdateBanner renders the maintenance countdown the way the console shows
// it, empty when no update is scheduled
func (a *Admin) UpdateBanner() string {
	view := a.Maintenance.Snapshot()
	version := a.Version()
	switch view.State {
	case countdown.Running.String():
		left := time.Duration(view.RemainingMS) * time.Millisecond
		return fmt.Sprintf("UPDATE: %s in T-%s", version, countdown.FormatClock(left))
	case countdown.Expired.String():
		return strings.TrimSpace(version + " UPDATE IN PROGRESS.")
	}
	return ""
}
