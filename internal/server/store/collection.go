// Package store persists record collections as whole-file JSON arrays.
//
// Each Collection owns one file and one FIFO lock. Every operation loads the
// full file under the lock, and every mutation rewrites it in full before
// the lock is released, so an operation always observes the last completed
// write.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/incidentkeeper/internal/common"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

// Collection is a file-backed list of records of one kind.
type Collection[T models.Record] struct {
	name string
	path string

	// Weighted(1) hands the lock to waiters in arrival order.
	lock *semaphore.Weighted

	onChange func(snapshot []T)
}

func NewCollection[T models.Record](name, path string) *Collection[T] {
	return &Collection[T]{
		name: name,
		path: path,
		lock: semaphore.NewWeighted(1),
	}
}

func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) Path() string { return c.path }

// OnChange installs a hook that receives a copy of the collection after
// every successful mutation. The hook runs with the lock held, so hooks see
// mutations in lock order; it must not block or call back into c. Install
// it before the collection is shared.
func (c *Collection[T]) OnChange(fn func(snapshot []T)) {
	c.onChange = fn
}

// List returns a snapshot of the collection. A missing file is created
// empty.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := c.withLock(ctx, func() error {
		items, err := c.load()
		out = items
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Add appends record and returns the new snapshot.
func (c *Collection[T]) Add(ctx context.Context, record T) ([]T, error) {
	return c.mutate(ctx, func(items []T) []T {
		return append(items, record)
	})
}

// Update replaces the record with the given id. See UpdateFunc.
func (c *Collection[T]) Update(ctx context.Context, id uuid.UUID, record T) ([]T, error) {
	return c.UpdateFunc(ctx, id, func(T, bool) T { return record })
}

// UpdateFunc computes a replacement from the current record with the given
// id (found reports whether there was one) and stores it. Every record whose
// id equals either id or the replacement's id is removed before the
// replacement is appended, so an unknown id behaves as an insert.
func (c *Collection[T]) UpdateFunc(ctx context.Context, id uuid.UUID, fn func(prev T, found bool) T) ([]T, error) {
	return c.mutate(ctx, func(items []T) []T {
		var prev T
		found := false
		for _, item := range items {
			if item.GetID() == id {
				prev, found = item, true
				break
			}
		}

		next := fn(prev, found)
		nextID := next.GetID()

		kept := make([]T, 0, len(items)+1)
		for _, item := range items {
			if itemID := item.GetID(); itemID == id || itemID == nextID {
				continue
			}
			kept = append(kept, item)
		}
		return append(kept, next)
	})
}

// Remove drops every record with the given id. Removing an unknown id still
// rewrites the file and reports a change.
func (c *Collection[T]) Remove(ctx context.Context, id uuid.UUID) ([]T, error) {
	return c.mutate(ctx, func(items []T) []T {
		return slices.DeleteFunc(items, func(item T) bool {
			return item.GetID() == id
		})
	})
}

// FindOrAdd returns the first record matching match. If there is none it
// appends create() and returns that with created set. Lookup and insert
// happen under one lock acquisition.
func (c *Collection[T]) FindOrAdd(ctx context.Context, match func(T) bool, create func() T) (record T, created bool, err error) {
	err = c.withLock(ctx, func() error {
		items, err := c.load()
		if err != nil {
			return err
		}

		if i := slices.IndexFunc(items, match); i >= 0 {
			record = items[i]
			return nil
		}

		record = create()
		items = append(items, record)
		if err := c.persist(items); err != nil {
			return err
		}
		created = true
		c.changed(items)
		return nil
	})
	return record, created, err
}

func (c *Collection[T]) mutate(ctx context.Context, fn func(items []T) []T) ([]T, error) {
	var out []T
	err := c.withLock(ctx, func() error {
		items, err := c.load()
		if err != nil {
			return err
		}

		items = fn(items)
		if err := c.persist(items); err != nil {
			return err
		}

		out = items
		c.changed(items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collection[T]) changed(items []T) {
	if c.onChange != nil {
		c.onChange(slices.Clone(items))
	}
}

// withLock runs fn while holding the collection lock. The lock is released
// on every path, including a panic in fn.
func (c *Collection[T]) withLock(ctx context.Context, fn func() error) error {
	if err := c.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.lock.Release(1)
	return fn()
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := c.persist(nil); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", common.ErrStorage, c.name, err)
	}

	var items []T
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", common.ErrStorage, c.name, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// persist rewrites the whole file through a temp file and rename, so a
// reader never observes a partial write.
func (c *Collection[T]) persist(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", common.ErrStorage, c.name, err)
	}

	if err := atomic.WriteFile(c.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: write %s: %w", common.ErrStorage, c.name, err)
	}
	return nil
}
