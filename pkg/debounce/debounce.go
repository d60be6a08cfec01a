// Package debounce provides a value that settles only after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// SearchQuietPeriod is the pause after the last keystroke before a search
// term becomes active.
const SearchQuietPeriod = 300 * time.Millisecond

// A Value delivers the latest value given to Set once no further Set
// happened for the quiet period.
//
// Only the most recent settled value is kept when the receiver is slow.
type Value[T any] struct {
	quiet   time.Duration
	mu      sync.Mutex
	latest  T
	timer   *time.Timer
	out     chan T
	stopped bool
}

func New[T any](quiet time.Duration) *Value[T] {
	return &Value[T]{
		quiet: quiet,
		out:   make(chan T, 1),
	}
}

// Set stores v and restarts the quiet period.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}

	v.latest = x
	if v.timer == nil {
		v.timer = time.AfterFunc(v.quiet, v.fire)
		return
	}
	v.timer.Reset(v.quiet)
}

// C returns the channel of settled values. It is closed by Stop.
func (v *Value[T]) C() <-chan T {
	return v.out
}

func (v *Value[T]) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}
	v.stopped = true
	if v.timer != nil {
		v.timer.Stop()
	}
	close(v.out)
}

func (v *Value[T]) fire() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}

	select {
	case <-v.out:
	default:
	}
	v.out <- v.latest
}
