// Package visibility tracks which categories the user has hidden
package visibility

import (
	"slices"
	"sync"

	"github.com/mmcdole/kanal/internal/domain"
)

// AllCategoryID is the synthetic category that lists everything. It cannot be hidden.
const AllCategoryID = "all"

// AllCategory returns the synthetic category labelled for t
func AllCategory(t domain.ContentType) domain.Category {
	name := "All Channels"
	switch t {
	case domain.ContentVOD:
		name = "All Movies"
	case domain.ContentSeries:
		name = "All Series"
	}
	return domain.Category{CategoryID: AllCategoryID, CategoryName: name}
}

// Overlay is the set of hidden category ids. It applies to whichever
// playlist is active.
type Overlay struct {
	mu       sync.RWMutex
	hidden   map[string]struct{}
	onChange func()
}

func New() *Overlay {
	return &Overlay{hidden: make(map[string]struct{})}
}

// OnChange registers a callback run after every mutation
func (o *Overlay) OnChange(fn func()) {
	o.mu.Lock()
	o.onChange = fn
	o.mu.Unlock()
}

// Toggle hides or shows a category and reports whether it is hidden afterwards
func (o *Overlay) Toggle(id string) bool {
	if id == AllCategoryID || id == "" {
		return false
	}

	o.mu.Lock()
	_, hidden := o.hidden[id]
	if hidden {
		delete(o.hidden, id)
	} else {
		o.hidden[id] = struct{}{}
	}
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn()
	}
	return !hidden
}

func (o *Overlay) IsHidden(id string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.hidden[id]
	return ok
}

// Hidden returns the hidden ids, sorted
func (o *Overlay) Hidden() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.hidden))
	for id := range o.hidden {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Visible prepends the "all" category of t and drops hidden categories
func (o *Overlay) Visible(t domain.ContentType, categories []domain.Category) []domain.Category {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]domain.Category, 0, len(categories)+1)
	out = append(out, AllCategory(t))
	for _, c := range categories {
		if c.CategoryID == AllCategoryID {
			continue
		}
		if _, hidden := o.hidden[c.CategoryID]; !hidden {
			out = append(out, c)
		}
	}
	return out
}

// Restore replaces the hidden set without notifying OnChange
func (o *Overlay) Restore(ids []string) {
	hidden := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" && id != AllCategoryID {
			hidden[id] = struct{}{}
		}
	}
	o.mu.Lock()
	o.hidden = hidden
	o.mu.Unlock()
}
