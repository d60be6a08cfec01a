// Package fanin joins independent live sources into one aggregate stream.
package fanin

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// A Source subscribes onChange to a stream of values.
//
// It returns the function that ends the subscription.
type Source[T any] func(ctx context.Context, onChange func(T)) (unsubscribe func(), err error)

// A Group holds acquired subscriptions and releases all of them once.
type Group struct {
	mu       sync.Mutex
	releases []func()
	released bool
}

func (g *Group) add(release func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return false
	}
	g.releases = append(g.releases, release)
	return true
}

// Release ends every held subscription in reverse order of acquisition.
// Calls after the first are no-ops.
func (g *Group) Release() {
	g.mu.Lock()
	if g.released {
		g.mu.Unlock()
		return
	}
	g.released = true
	rs := g.releases
	g.releases = nil
	g.mu.Unlock()

	for i := len(rs) - 1; i >= 0; i-- {
		rs[i]()
	}
}

func acquire[T any](
	ctx context.Context, g *Group, name string, s Source[T], fn func(T),
) error {
	unsubscribe, err := s(ctx, fn)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", name, err)
	}
	if unsubscribe == nil {
		return nil
	}
	if !g.add(unsubscribe) {
		unsubscribe()
		return errors.New("group released")
	}
	return nil
}

type join4[A, B, C, D any] struct {
	emitMu sync.Mutex
	mu     sync.Mutex
	a      A
	b      B
	c      C
	d      D
	have   [4]bool
	closed bool
	emit   func(A, B, C, D)
}

func (j *join4[A, B, C, D]) update(apply func()) {
	j.emitMu.Lock()
	defer j.emitMu.Unlock()

	j.mu.Lock()
	apply()
	ready := !j.closed && j.have[0] && j.have[1] && j.have[2] && j.have[3]
	a, b, c, d := j.a, j.b, j.c, j.d
	j.mu.Unlock()

	if ready {
		j.emit(a, b, c, d)
	}
}

func (j *join4[A, B, C, D]) close() {
	j.emitMu.Lock()
	defer j.emitMu.Unlock()
	j.mu.Lock()
	j.closed = true
	j.mu.Unlock()
}

// Join4 subscribes to four sources and calls onChange with the latest value
// of each.
//
// The first call happens once every source delivered at least one value;
// after that every delivery from any source triggers a call. Calls are
// serialized and none happens after unsubscribe returns. If any
// subscription fails, the ones already acquired are released.
//
// onChange must not call unsubscribe.
func Join4[A, B, C, D any](
	ctx context.Context,
	a Source[A], b Source[B], c Source[C], d Source[D],
	onChange func(A, B, C, D),
) (unsubscribe func(), err error) {
	j := &join4[A, B, C, D]{emit: onChange}
	g := new(Group)

	release := func() {
		j.close()
		g.Release()
	}

	steps := []func() error{
		func() error {
			return acquire(ctx, g, "first", a, func(v A) {
				j.update(func() { j.a, j.have[0] = v, true })
			})
		},
		func() error {
			return acquire(ctx, g, "second", b, func(v B) {
				j.update(func() { j.b, j.have[1] = v, true })
			})
		},
		func() error {
			return acquire(ctx, g, "third", c, func(v C) {
				j.update(func() { j.c, j.have[2] = v, true })
			})
		},
		func() error {
			return acquire(ctx, g, "fourth", d, func(v D) {
				j.update(func() { j.d, j.have[3] = v, true })
			})
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			release()
			return nil, err
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
