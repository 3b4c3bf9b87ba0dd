package library

import (
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/visibility"
)

// Categories returns the visible categories of t with their channel counts.
// The synthetic "all" category comes first and counts everything.
func (s *Service) Categories(t domain.ContentType) []CategoryView {
	all := s.AllCategories(t)
	counts := s.counts(t)

	total := 0
	for _, n := range counts {
		total += n
	}

	visible := s.visibility.Visible(t, all)
	out := make([]CategoryView, 0, len(visible))
	for _, c := range visible {
		n := counts[c.CategoryID]
		if c.CategoryID == visibility.AllCategoryID {
			n = total
		}
		out = append(out, CategoryView{Category: c, Count: n})
	}
	return out
}

// AllCategories returns every category of t, hidden ones included
func (s *Service) AllCategories(t domain.ContentType) []domain.Category {
	switch s.Source() {
	case domain.SourceXtream:
		if s.channels.ContentType() != t {
			return []domain.Category{}
		}
		return s.channels.Categories()
	case domain.SourceM3U:
		groups := s.m3u.CategoriesByType(t)
		out := make([]domain.Category, 0, len(groups))
		for _, g := range groups {
			out = append(out, domain.Category{CategoryID: g, CategoryName: g})
		}
		return out
	}
	return []domain.Category{}
}

// Channels returns the channels of one category of t. The "all" category
// and the empty id return every channel of t outside hidden categories.
func (s *Service) Channels(t domain.ContentType, categoryID string) []domain.CatalogItem {
	if categoryID == visibility.AllCategoryID {
		categoryID = ""
	}
	out := make([]domain.CatalogItem, 0)

	switch s.Source() {
	case domain.SourceXtream:
		if s.channels.ContentType() != t {
			return out
		}
		channels := s.channels.Channels()
		for i := range channels {
			ch := &channels[i]
			if s.included(ch.CategoryID, categoryID) {
				out = append(out, ch)
			}
		}
	case domain.SourceM3U:
		channels := s.m3u.ChannelsByType(t, categoryID)
		for i := range channels {
			ch := &channels[i]
			if s.included(ch.Group, categoryID) {
				out = append(out, ch)
			}
		}
	}
	return out
}

// Favorites resolves the favorites of the current source. Favorites whose
// channel is not in the loaded catalog are skipped.
func (s *Service) Favorites() []domain.CatalogItem {
	switch s.Source() {
	case domain.SourceXtream:
		return s.favorites.Resolve(domain.SourceXtream, s.channels.Lookup)
	case domain.SourceM3U:
		return s.favorites.Resolve(domain.SourceM3U, s.m3u.Lookup)
	}
	return []domain.CatalogItem{}
}

// Lookup finds an item of the current source by identity key
func (s *Service) Lookup(key string) (domain.CatalogItem, bool) {
	switch s.Source() {
	case domain.SourceXtream:
		return s.channels.Lookup(key)
	case domain.SourceM3U:
		return s.m3u.Lookup(key)
	}
	return nil, false
}

func (s *Service) IsFavorite(item domain.CatalogItem) bool {
	return s.favorites.Contains(item)
}

// Hidden returns the hidden category ids
func (s *Service) Hidden() []string {
	return s.visibility.Hidden()
}

// included reports whether a channel in category belongs in a listing for
// requested. Listing everything skips hidden categories.
func (s *Service) included(category, requested string) bool {
	if requested != "" {
		return category == requested
	}
	return !s.visibility.IsHidden(category)
}

func (s *Service) counts(t domain.ContentType) map[string]int {
	switch s.Source() {
	case domain.SourceXtream:
		if s.channels.ContentType() != t {
			return map[string]int{}
		}
		counts := s.channels.CategoryCounts()
		for id := range counts {
			if s.visibility.IsHidden(id) {
				delete(counts, id)
			}
		}
		return counts
	case domain.SourceM3U:
		counts := make(map[string]int)
		for _, ch := range s.m3u.ChannelsByType(t, "") {
			if !s.visibility.IsHidden(ch.Group) {
				counts[ch.Group]++
			}
		}
		return counts
	}
	return map[string]int{}
}
