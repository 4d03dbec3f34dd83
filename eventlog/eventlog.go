// Package eventlog holds append-only logs that are displayed newest first.
package eventlog

import (
	"errors"
	"fmt"
	"iter"
	"sync"
)

// ErrIndexOutOfRange is returned when a display index does not address an item
var ErrIndexOutOfRange = errors.New("display index out of range")

// EventLog stores items oldest first and exposes them newest first
type EventLog[T any] struct {
	mu    sync.RWMutex
	items []T
}

// New creates an empty EventLog
func New[T any]() *EventLog[T] {
	return &EventLog[T]{}
}

// Append adds item to the end of storage order
func (l *EventLog[T]) Append(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
}

// Len returns the number of items in the log
func (l *EventLog[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// DisplayOrder yields the items newest first. Each iteration works on a
// snapshot taken when it starts, so the consumer may mutate the log while
// ranging over it.
func (l *EventLog[T]) DisplayOrder() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range l.Snapshot() {
			if !yield(item) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the items in display order
func (l *EventLog[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, 0, len(l.items))
	for i := len(l.items) - 1; i >= 0; i-- {
		out = append(out, l.items[i])
	}
	return out
}

// RemoveAtDisplayIndex removes the item at position i of the display order,
// where 0 is the newest item. The log is left untouched when i is out of range.
func (l *EventLog[T]) RemoveAtDisplayIndex(i int) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	n := len(l.items)
	if i < 0 || i >= n {
		return zero, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
	}

	storageIndex := n - 1 - i
	removed := l.items[storageIndex]
	copy(l.items[storageIndex:], l.items[storageIndex+1:])
	l.items[n-1] = zero
	l.items = l.items[:n-1]
	return removed, nil
}

// Clear drops every item
func (l *EventLog[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}
