// Package search matches channel names for the list filter and the global search
package search

import (
	"strings"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Result is a filter hit with the matched rune positions for highlighting
type Result struct {
	Item           domain.CatalogItem
	MatchedIndexes []int
	Score          int // higher is better
}

// source implements fuzzy.Source over lowercase display names
type source struct {
	items []domain.CatalogItem
	lower []string
}

func newSource(items []domain.CatalogItem) *source {
	lower := make([]string, len(items))
	for i, it := range items {
		lower[i] = strings.ToLower(it.DisplayName())
	}
	return &source{items: items, lower: lower}
}

func (s *source) String(i int) string { return s.lower[i] }
func (s *source) Len() int { return len(s.items) }

// Filter keeps the items whose name contains the query characters in order,
// best matches first. An empty query keeps everything in its original order.
func Filter(query string, items []domain.CatalogItem) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Result, len(items))
		for i, it := range items {
			out[i] = Result{Item: it}
		}
		return out
	}

	src := newSource(items)
	matches := fuzzy.FindFrom(query, src)
	out := make([]Result, len(matches))
	for i, m := range matches {
		out[i] = Result{Item: items[m.Index], MatchedIndexes: m.MatchedIndexes, Score: m.Score}
	}
	return out
}
