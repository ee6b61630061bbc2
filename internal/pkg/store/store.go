// Package store holds the canonical in-memory collections of the console.
//
// A Store keeps records of one entity type keyed by id, in insertion order.
// Readers get immutable snapshots; every mutation builds a new slice, so a
// snapshot handed out earlier never changes underneath its holder.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

// Entity is implemented by every record type kept in a Store.
type Entity[T any] interface {
	// Key returns the record id.
	Key() string
	// WithKey returns a copy of the record carrying the given id.
	WithKey(id string) T
	// SearchFields returns the values matched by the search filter.
	SearchFields() []string
}

// Persister is an optional write-through backend for a Store.
type Persister[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

// Op is the kind of mutation reported to subscribers.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Change describes a committed mutation.
type Change[T any] struct {
	Resource string `json:"resource"`
	Op       Op     `json:"op"`
	ID       string `json:"id"`
	Item     T      `json:"item"`
}

// Option configures a Store.
type Option[T Entity[T]] func(*Store[T])

// WithIDGenerator replaces the default epoch-millisecond id generator.
func WithIDGenerator[T Entity[T]](gen IDGenerator) Option[T] {
	return func(s *Store[T]) {
		s.ids = gen
	}
}

// WithPersister enables write-through persistence.
func WithPersister[T Entity[T]](p Persister[T]) Option[T] {
	return func(s *Store[T]) {
		s.persister = p
	}
}

// WithUniqueKey rejects a Create or Update whose key(item) is non-empty and
// already held by another record. The check runs under the write lock, so two
// concurrent writers cannot both claim the same key. conflict is returned as is.
func WithUniqueKey[T Entity[T]](key func(T) string, conflict error) Option[T] {
	return func(s *Store[T]) {
		s.uniques = append(s.uniques, uniqueKey[T]{key: key, conflict: conflict})
	}
}

type uniqueKey[T any] struct {
	key      func(T) string
	conflict error
}

// Store is a concurrency-safe collection of records of one type.
type Store[T Entity[T]] struct {
	resource  string
	ids       IDGenerator
	persister Persister[T]
	uniques   []uniqueKey[T]

	mu    sync.RWMutex
	items []T
	index map[string]int

	// held from commit until every subscriber has seen the change, so
	// subscribers observe changes in commit order
	pubMu sync.Mutex

	subMu   sync.RWMutex
	subs    map[int]func(Change[T])
	nextSub int
}

// New creates an empty Store for the named resource.
func New[T Entity[T]](resource string, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		resource: resource,
		ids:      EpochMillis(),
		index:    make(map[string]int),
		subs:     make(map[int]func(Change[T])),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resource returns the resource name the store was created with.
func (s *Store[T]) Resource() string {
	return s.resource
}

// Load fills the store from its persister, replacing the current contents.
// It is a no-op without a persister.
func (s *Store[T]) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	items, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", s.resource, err)
	}
	s.Replace(items)
	return nil
}

// Replace swaps the whole collection without notifying subscribers or the persister.
// Records with an empty id receive a generated one.
func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]T, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		id := item.Key()
		if id == "" {
			id = s.ids.Next(func(candidate string) bool {
				_, taken := index[candidate]
				return taken
			})
			item = item.WithKey(id)
		}
		if pos, ok := index[id]; ok {
			next[pos] = item
			continue
		}
		index[id] = len(next)
		next = append(next, item)
	}
	s.items = next
	s.index = index
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot returns every record in insertion order.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// List returns the records matching term (see Filter).
func (s *Store[T]) List(term string) []T {
	return Filter(s.Snapshot(), term)
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, s.notFound(id)
	}
	return s.items[pos], nil
}

// Create appends draft under a freshly generated id and returns the stored record.
func (s *Store[T]) Create(ctx context.Context, draft T) (T, error) {
	s.mu.Lock()
	id := s.ids.Next(func(candidate string) bool {
		_, taken := s.index[candidate]
		return taken
	})
	item := draft.WithKey(id)

	if err := s.checkUnique(item); err != nil {
		s.mu.Unlock()
		var zero T
		return zero, err
	}

	if s.persister != nil {
		if err := s.persister.Save(ctx, item); err != nil {
			s.mu.Unlock()
			var zero T
			return zero, fmt.Errorf("error persisting %s %s: %w", s.resource, id, err)
		}
	}

	next := make([]T, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.index[id] = len(next)
	s.items = append(next, item)
	s.commit(Change[T]{Resource: s.resource, Op: OpCreated, ID: id, Item: item})
	return item, nil
}

// Update replaces the record with the given id by draft, keeping the id.
func (s *Store[T]) Update(ctx context.Context, id string, draft T) (T, error) {
	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		var zero T
		return zero, s.notFound(id)
	}
	item := draft.WithKey(id)

	if err := s.checkUnique(item); err != nil {
		s.mu.Unlock()
		var zero T
		return zero, err
	}

	if s.persister != nil {
		if err := s.persister.Save(ctx, item); err != nil {
			s.mu.Unlock()
			var zero T
			return zero, fmt.Errorf("error persisting %s %s: %w", s.resource, id, err)
		}
	}

	next := make([]T, len(s.items))
	copy(next, s.items)
	next[pos] = item
	s.items = next
	s.commit(Change[T]{Resource: s.resource, Op: OpUpdated, ID: id, Item: item})
	return item, nil
}

// Delete removes the record with the given id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return s.notFound(id)
	}
	removed := s.items[pos]

	if s.persister != nil {
		if err := s.persister.Delete(ctx, id); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("error deleting persisted %s %s: %w", s.resource, id, err)
		}
	}

	next := make([]T, 0, len(s.items)-1)
	next = append(next, s.items[:pos]...)
	next = append(next, s.items[pos+1:]...)
	index := make(map[string]int, len(next))
	for i, item := range next {
		index[item.Key()] = i
	}
	s.items = next
	s.index = index
	s.commit(Change[T]{Resource: s.resource, Op: OpDeleted, ID: id, Item: removed})
	return nil
}

// Subscribe registers fn for every committed change and returns a function
// that removes the subscription. Changes arrive in commit order; fn must not
// call back into the store.
func (s *Store[T]) Subscribe(fn func(Change[T])) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// commit must be called with mu held. It releases mu and delivers change.
// Subscribers must not call back into the store.
func (s *Store[T]) commit(change Change[T]) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	s.publish(change)
}

// checkUnique must be called with mu held.
func (s *Store[T]) checkUnique(item T) error {
	for _, u := range s.uniques {
		want := u.key(item)
		if want == "" {
			continue
		}
		for _, other := range s.items {
			if other.Key() != item.Key() && u.key(other) == want {
				return u.conflict
			}
		}
	}
	return nil
}

func (s *Store[T]) publish(change Change[T]) {
	s.subMu.RLock()
	fns := make([]func(Change[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}

func (s *Store[T]) notFound(id string) error {
	return apperrors.NewCustomError(apperrors.ErrResourceNotFound,
		fmt.Sprintf("%s %q not found", s.resource, id))
}
