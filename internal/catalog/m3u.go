package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/m3u"
	"github.com/mmcdole/kanal/internal/redact"
)

// PlaylistFetcher downloads and parses an M3U playlist
type PlaylistFetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.M3UChannel, error)
}

// M3UStore holds the entries of the active M3U playlist.
// Type views are derived on every call from the single entry list.
type M3UStore struct {
	fetcher PlaylistFetcher
	logger  *slog.Logger

	mu       sync.RWMutex
	url      string
	channels []domain.M3UChannel
	loading  bool
	err      error
}

func NewM3UStore(fetcher PlaylistFetcher, logger *slog.Logger) *M3UStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &M3UStore{
		fetcher:  fetcher,
		logger:   logger,
		channels: []domain.M3UChannel{},
	}
}

// LoadPlaylist fetches url and replaces the entries. On failure the error is
// recorded and the previous entries stay.
func (s *M3UStore) LoadPlaylist(ctx context.Context, url string) error {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	start := time.Now()
	channels, err := s.fetcher.Fetch(ctx, url)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = fmt.Errorf("loading playlist: %w", err)
		s.logger.Error("failed to load m3u playlist", "url", redact.URL(url), "error", redact.Error(err))
		return s.err
	}
	if channels == nil {
		channels = []domain.M3UChannel{}
	}
	s.url = url
	s.channels = channels
	s.logger.Info("m3u playlist loaded", "url", redact.URL(url), "channels", len(channels), "duration", time.Since(start))
	return nil
}

// Clear drops the entries and the last error
func (s *M3UStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = ""
	s.channels = []domain.M3UChannel{}
	s.err = nil
}

// URL is the playlist the entries came from
func (s *M3UStore) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

func (s *M3UStore) Channels() []domain.M3UChannel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channels
}

// Categories returns the distinct groups, sorted
func (s *M3UStore) Categories() []string {
	return groups(s.Channels())
}

func (s *M3UStore) ChannelsByCategory(group string) []domain.M3UChannel {
	channels := s.Channels()
	out := make([]domain.M3UChannel, 0)
	for i := range channels {
		if channels[i].Group == group {
			out = append(out, channels[i])
		}
	}
	return out
}

// ChannelsByType classifies the entries for t, optionally within one group
func (s *M3UStore) ChannelsByType(t domain.ContentType, group string) []domain.M3UChannel {
	return m3u.Filter(s.Channels(), t, group)
}

// CategoriesByType returns the sorted groups that have entries of type t
func (s *M3UStore) CategoriesByType(t domain.ContentType) []string {
	return groups(s.ChannelsByType(t, ""))
}

// Lookup finds an entry by id, or by stream URL since ids change on every parse
func (s *M3UStore) Lookup(key string) (domain.CatalogItem, bool) {
	channels := s.Channels()
	for i := range channels {
		if channels[i].ID == key || channels[i].URL == key {
			ch := channels[i]
			return &ch, true
		}
	}
	return nil, false
}

func (s *M3UStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *M3UStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func groups(channels []domain.M3UChannel) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range channels {
		if _, ok := seen[channels[i].Group]; ok {
			continue
		}
		seen[channels[i].Group] = struct{}{}
		out = append(out, channels[i].Group)
	}
	slices.Sort(out)
	return out
}
