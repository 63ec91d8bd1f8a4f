// Package notifier fans collection snapshots out to live subscribers.
package notifier

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/incidentkeeper/internal/logging"
)

// Handle identifies a subscriber's connection. Implementations must be
// comparable (typically a pointer).
type Handle interface {
	Closed() bool
}

// Callback receives a snapshot. It runs on the notifying goroutine and must
// not block.
type Callback[T any] func(snapshot []T)

// Notifier keeps one callback per handle. It holds no history: a snapshot
// reaches only the subscribers registered when it is published.
type Notifier[T any] struct {
	mu          sync.Mutex
	subscribers map[Handle]Callback[T]
	logger      logging.Logger
}

func New[T any](l logging.Logger) *Notifier[T] {
	return &Notifier[T]{
		subscribers: make(map[Handle]Callback[T]),
		logger:      l.With("module", "notifier"),
	}
}

// Subscribe registers cb for h, replacing any previous callback for h.
func (n *Notifier[T]) Subscribe(h Handle, cb Callback[T]) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers[h] = cb
}

func (n *Notifier[T]) Unsubscribe(h Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subscribers, h)
}

// Len returns the number of registered handles, closed ones included until
// the next NotifyAll prunes them.
func (n *Notifier[T]) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subscribers)
}

// NotifyAll delivers snapshot to every subscriber whose handle is still
// open. Closed handles are skipped and dropped from the registry. A
// panicking callback is logged and does not affect the others.
func (n *Notifier[T]) NotifyAll(snapshot []T) {
	n.mu.Lock()
	live := make([]Callback[T], 0, len(n.subscribers))
	for h, cb := range n.subscribers {
		if h.Closed() {
			delete(n.subscribers, h)
			continue
		}
		live = append(live, cb)
	}
	n.mu.Unlock()

	for _, cb := range live {
		n.deliver(cb, slices.Clone(snapshot))
	}
}

func (n *Notifier[T]) deliver(cb Callback[T], snapshot []T) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error(context.Background(), "subscriber callback panicked", "panic", fmt.Sprint(r))
		}
	}()
	cb(snapshot)
}
