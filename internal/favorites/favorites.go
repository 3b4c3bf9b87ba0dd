// Package favorites keeps the user's favorite channels as references into
// the catalogs. References survive catalog reloads; ones that no longer
// resolve are skipped, never pruned.
package favorites

import (
	"slices"
	"sync"

	"github.com/mmcdole/kanal/internal/domain"
)

// Registry holds favorite references per source kind, in insertion order
type Registry struct {
	mu       sync.RWMutex
	refs     []domain.FavoriteRef
	onChange func()
}

func New() *Registry {
	return &Registry{refs: []domain.FavoriteRef{}}
}

// OnChange registers a callback run after every mutation, outside the lock
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Toggle removes item when it is a favorite and appends it otherwise.
// It reports whether the item is a favorite afterwards.
func (r *Registry) Toggle(item domain.CatalogItem) bool {
	ref := domain.NewFavoriteRef(item)
	if ref.Key == "" {
		return false
	}

	r.mu.Lock()
	i := slices.IndexFunc(r.refs, func(f domain.FavoriteRef) bool { return f.Matches(item) })
	added := i < 0
	if added {
		r.refs = append(r.refs, ref)
	} else {
		r.refs = slices.Delete(slices.Clone(r.refs), i, i+1)
	}
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn()
	}
	return added
}

// IsFavorite checks the stored keys of kind
func (r *Registry) IsFavorite(kind domain.SourceKind, key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.ContainsFunc(r.refs, func(f domain.FavoriteRef) bool {
		return f.Kind == kind && f.Key == key
	})
}

// Contains is IsFavorite that also matches M3U entries by URL
func (r *Registry) Contains(item domain.CatalogItem) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.ContainsFunc(r.refs, func(f domain.FavoriteRef) bool { return f.Matches(item) })
}

// Refs returns the references of one source kind
func (r *Registry) Refs(kind domain.SourceKind) []domain.FavoriteRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.FavoriteRef, 0)
	for _, ref := range r.refs {
		if ref.Kind == kind {
			out = append(out, ref)
		}
	}
	return out
}

// Resolve looks up every reference of kind, by key and then by URL, and
// skips the ones the resolver no longer knows
func (r *Registry) Resolve(kind domain.SourceKind, resolve domain.Resolver) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0)
	for _, ref := range r.Refs(kind) {
		item, ok := resolve(ref.Key)
		if !ok && ref.URL != "" {
			item, ok = resolve(ref.URL)
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}

// Snapshot returns all references for persistence
func (r *Registry) Snapshot() []domain.FavoriteRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.refs)
}

// Restore replaces the references without notifying OnChange.
// Duplicates and empty keys are dropped.
func (r *Registry) Restore(refs []domain.FavoriteRef) {
	clean := make([]domain.FavoriteRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Key == "" || slices.Contains(clean, ref) {
			continue
		}
		clean = append(clean, ref)
	}
	r.mu.Lock()
	r.refs = clean
	r.mu.Unlock()
}
