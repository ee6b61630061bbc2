// Package lookups resolves foreign-key ids to display names.
package lookups

import (
	"sync"

	"github.com/convocatorias/portal/internal/pkg/store"
)

// Placeholder is shown for ids that do not resolve.
const Placeholder = "—"

// NamedEntity is a store record with a display name.
type NamedEntity[T any] interface {
	store.Entity[T]
	DisplayName() string
}

// Index maps ids of one resource to display names. It is built from a store
// snapshot and follows the store's changes until Close is called.
type Index struct {
	mu    sync.RWMutex
	names map[string]string
	stop  func()
}

// NewIndex builds an Index over st.
func NewIndex[T NamedEntity[T]](st *store.Store[T]) *Index {
	idx := &Index{names: make(map[string]string)}

	// Subscribe before the snapshot so no change falls between the two
	idx.stop = st.Subscribe(func(c store.Change[T]) {
		idx.mu.Lock()
		defer idx.mu.Unlock()
		if c.Op == store.OpDeleted {
			delete(idx.names, c.ID)
			return
		}
		idx.names[c.ID] = c.Item.DisplayName()
	})

	items := st.Snapshot()
	idx.mu.Lock()
	for _, item := range items {
		if _, seen := idx.names[item.Key()]; !seen {
			idx.names[item.Key()] = item.DisplayName()
		}
	}
	idx.mu.Unlock()

	return idx
}

// FromMap builds a static Index, mostly useful in tests.
func FromMap(names map[string]string) *Index {
	idx := &Index{names: make(map[string]string, len(names)), stop: func() {}}
	for k, v := range names {
		idx.names[k] = v
	}
	return idx
}

// Name returns the display name of id, or Placeholder.
func (i *Index) Name(id string) string {
	if i == nil || id == "" {
		return Placeholder
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	if name, ok := i.names[id]; ok && name != "" {
		return name
	}
	return Placeholder
}

// Len returns the number of indexed ids.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.names)
}

// Close stops following the store.
func (i *Index) Close() {
	i.stop()
}

// Set groups the indexes used to resolve the foreign keys of a call.
type Set struct {
	Institutions    *Index
	Lines           *Index
	TargetAudiences *Index
	Interests       *Index
	Roles           *Index
}
