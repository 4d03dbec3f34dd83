package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/linesmerrill/dispatch-console/countdown"
)

// Epoch is where every test Clock starts
var Epoch = time.UnixMilli(1_700_000_000_000)

// Clock is a clock that only moves when told to
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// NewClock creates a Clock at Epoch
func NewClock() *Clock {
	return &Clock{t: Epoch}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// CountingStore wraps a MemoryStore, counts deletes and can be made to fail
type CountingStore struct {
	*countdown.MemoryStore

	mu        sync.Mutex
	deletes   int
	LoadErr   error
	DeleteErr error
}

// NewCountingStore creates an empty CountingStore
func NewCountingStore() *CountingStore {
	return &CountingStore{MemoryStore: countdown.NewMemoryStore()}
}

// Load fails with LoadErr when set
func (s *CountingStore) Load(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	err := s.LoadErr
	s.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return s.MemoryStore.Load(ctx, key)
}

// Delete fails with DeleteErr when set, otherwise counts the call
func (s *CountingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.DeleteErr != nil {
		err := s.DeleteErr
		s.mu.Unlock()
		return err
	}
	s.deletes++
	s.mu.Unlock()
	return s.MemoryStore.Delete(ctx, key)
}

// Deletes returns how many deletes succeeded
func (s *CountingStore) Deletes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}
