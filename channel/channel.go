// Package channel provides a fixed-capacity, thread-safe FIFO queue used for
// all inter-task communication in the truck service. It supports blocking,
// timed and non-blocking operations plus an overwrite-oldest push for
// producers that must never stall.
package channel

import (
	"fmt"
	"sync"
	"time"
)

// Bounded is a fixed-capacity FIFO queue guarded by a single mutex.
//
// Clear wakes every blocked waiter without delivering an item; a waiter woken
// this way returns as if its wait had timed out.
type Bounded[T any] struct {
	mu    sync.Mutex
	items []T
	head  int // next write position
	tail  int // oldest element
	count int

	// broadcast channel, closed and replaced on every state change
	changed chan struct{}
	// bumped by Clear so waiters can tell a reset from a normal wakeup
	gen uint64
}

// New creates a Bounded queue. A capacity below 1 is a configuration error.
func New[T any](capacity int) (*Bounded[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("channel: capacity must be > 0, got %d", capacity)
	}
	return &Bounded[T]{
		items:   make([]T, capacity),
		changed: make(chan struct{}),
	}, nil
}

// locked helpers

func (b *Bounded[T]) notify() {
	close(b.changed)
	b.changed = make(chan struct{})
}

func (b *Bounded[T]) putLocked(v T) {
	b.items[b.head] = v
	b.head = (b.head + 1) % len(b.items)
	b.count++
	b.notify()
}

func (b *Bounded[T]) takeLocked() T {
	v := b.items[b.tail]
	var zero T
	b.items[b.tail] = zero
	b.tail = (b.tail + 1) % len(b.items)
	b.count--
	b.notify()
	return v
}

// ForcePush inserts v, dropping the oldest element if the queue is full.
// It never blocks and always succeeds.
func (b *Bounded[T]) ForcePush(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == len(b.items) {
		b.tail = (b.tail + 1) % len(b.items)
		b.count--
	}
	b.putLocked(v)
}

// Push blocks until room exists. It never drops. A concurrent Clear makes
// room, so Push always completes once capacity is available.
func (b *Bounded[T]) Push(v T) {
	b.pushWait(v, 0, false)
}

// PushWait blocks until room exists or the timeout elapses. It reports
// whether the item was inserted; on timeout the queue is unchanged.
func (b *Bounded[T]) PushWait(v T, timeout time.Duration) bool {
	return b.pushWait(v, timeout, true)
}

func (b *Bounded[T]) pushWait(v T, timeout time.Duration, timed bool) bool {
	var deadline time.Time
	if timed {
		deadline = time.Now().Add(timeout)
	}
	b.mu.Lock()
	for {
		if b.count < len(b.items) {
			b.putLocked(v)
			b.mu.Unlock()
			return true
		}
		wait := b.changed
		b.mu.Unlock()
		if !waitOn(wait, deadline, timed) {
			return false
		}
		b.mu.Lock()
	}
}

// TryPop removes and returns the oldest element without blocking.
func (b *Bounded[T]) TryPop() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	if b.count == 0 {
		return zero, false
	}
	return b.takeLocked(), true
}

// TryPeek returns a copy of the oldest element without removing it.
func (b *Bounded[T]) TryPeek() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	if b.count == 0 {
		return zero, false
	}
	return b.items[b.tail], true
}

// Pop blocks until an element is available. It returns ok=false only when a
// Clear interrupts the wait.
func (b *Bounded[T]) Pop() (T, bool) {
	return b.popWait(0, false)
}

// PopWait blocks until an element is available or the timeout elapses.
func (b *Bounded[T]) PopWait(timeout time.Duration) (T, bool) {
	return b.popWait(timeout, true)
}

func (b *Bounded[T]) popWait(timeout time.Duration, timed bool) (T, bool) {
	var deadline time.Time
	if timed {
		deadline = time.Now().Add(timeout)
	}
	b.mu.Lock()
	var zero T
	for {
		if b.count > 0 {
			v := b.takeLocked()
			b.mu.Unlock()
			return v, true
		}
		wait := b.changed
		gen := b.gen
		b.mu.Unlock()
		if !waitOn(wait, deadline, timed) {
			return zero, false
		}
		b.mu.Lock()
		if b.gen != gen {
			// Clear ran while we were waiting: same as a timeout.
			b.mu.Unlock()
			return zero, false
		}
	}
}

// Len returns the current number of elements.
func (b *Bounded[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cap returns the fixed capacity.
func (b *Bounded[T]) Cap() int {
	return len(b.items)
}

// Empty reports whether the queue holds no elements.
func (b *Bounded[T]) Empty() bool {
	return b.Len() == 0
}

// Clear discards all elements, resets the cursors and wakes every waiter.
func (b *Bounded[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head, b.tail, b.count = 0, 0, 0
	b.gen++
	b.notify()
}

// waitOn blocks on the broadcast channel, bounded by the deadline when timed.
// It reports false on timeout.
func waitOn(wait <-chan struct{}, deadline time.Time, timed bool) bool {
	if !timed {
		<-wait
		return true
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-wait:
		return true
	case <-timer.C:
		return false
	}
}
