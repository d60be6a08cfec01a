// Package live turns document store queries into push-based subscriptions.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
	"github.com/niksmo/misslily/pkg/debounce"
)

var (
	_ port.Subscriber     = (*Hub)(nil)
	_ port.ChangeNotifier = (*Hub)(nil)
)

type querier interface {
	QueryCollection(context.Context, domain.Query) ([]domain.Document, error)
}

// A Hub re-runs subscribed queries whenever a change event for their
// collection arrives and re-delivers the full result set.
type Hub struct {
	store    querier
	coalesce time.Duration

	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	query    domain.Query
	onChange func([]domain.Document)
	dirty    *debounce.Value[struct{}]
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewHub returns a hub reading from store.
//
// Change bursts shorter than coalesce cause a single re-query.
func NewHub(store querier, coalesce time.Duration) *Hub {
	return &Hub{
		store:    store,
		coalesce: coalesce,
		subs:     make(map[int]*subscription),
	}
}

// Subscribe delivers the current result of q before returning, then keeps
// delivering fresh results until unsubscribe is called.
//
// Deliveries for one subscription are sequential. unsubscribe waits for an
// in-flight delivery and must not be called from onChange.
func (h *Hub) Subscribe(
	ctx context.Context, q domain.Query, onChange func([]domain.Document),
) (func(), error) {
	const op = "Hub.Subscribe"

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &subscription{
		query:    q,
		onChange: onChange,
		dirty:    debounce.New[struct{}](h.coalesce),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	// Registered before the first query so a change landing meanwhile
	// marks it dirty and is picked up by watch.
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = s
	h.mu.Unlock()

	ds, err := h.store.QueryCollection(ctx, q)
	if err != nil {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		s.cancel()
		s.dirty.Stop()
		close(s.done)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	onChange(ds)

	go h.watch(subCtx, s)

	slog.Debug("subscribed", "op", op, "collection", q.Collection, "id", id)

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(id) })
	}, nil
}

func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	s, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()

	if !ok {
		return
	}
	s.cancel()
	s.dirty.Stop()
	<-s.done
}

// Notify marks every subscription on a changed collection as stale.
func (h *Hub) Notify(ctx context.Context, events []domain.ChangeEvent) {
	changed := make(map[domain.Collection]bool, len(events))
	for _, e := range events {
		changed[e.Collection] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if changed[s.query.Collection] {
			s.dirty.Set(struct{}{})
		}
	}
}

// Len reports the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.unsubscribe(id)
	}
}

func (h *Hub) watch(ctx context.Context, s *subscription) {
	const op = "Hub.watch"
	log := slog.With("op", op, "collection", s.query.Collection)

	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-s.dirty.C():
			if !ok {
				return
			}
			ds, err := h.store.QueryCollection(ctx, s.query)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error("failed to refresh subscription", "err", err)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			s.onChange(ds)
		}
	}
}
