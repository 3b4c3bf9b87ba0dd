package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
)

// CatalogClient is the part of the Xtream client the store needs
type CatalogClient interface {
	Categories(ctx context.Context, creds domain.Credentials, t domain.ContentType) xtream.Result[[]xtream.CategoryDTO]
	Streams(ctx context.Context, creds domain.Credentials, t domain.ContentType, categoryID string) xtream.Result[[]xtream.StreamDTO]
}

// ChannelStore holds the categories and channels of one content type of the
// active Xtream playlist. Slices handed out are never mutated afterwards; a
// load builds new ones and swaps them in.
type ChannelStore struct {
	client     CatalogClient
	auth       domain.AuthSession
	logger     *slog.Logger
	batchSize  int
	onProgress domain.ProgressFunc

	mu              sync.RWMutex
	contentType     domain.ContentType
	categories      []domain.Category
	channels        []domain.Channel
	currentCategory string
	loading         bool
	fetchedAll      bool
	lastErr         error
}

// StoreOption configures a ChannelStore
type StoreOption func(*ChannelStore)

// WithBatchSize overrides DefaultBatchSize
func WithBatchSize(n int) StoreOption {
	return func(s *ChannelStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithProgress reports normalization progress once per batch
func WithProgress(fn domain.ProgressFunc) StoreOption {
	return func(s *ChannelStore) { s.onProgress = fn }
}

func NewChannelStore(client CatalogClient, auth domain.AuthSession, logger *slog.Logger, opts ...StoreOption) *ChannelStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ChannelStore{
		client:      client,
		auth:        auth,
		logger:      logger,
		batchSize:   DefaultBatchSize,
		contentType: domain.ContentLive,
		categories:  []domain.Category{},
		channels:    []domain.Channel{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadContent switches to content type t and loads its categories and all of
// its channels. A category failure is logged and leaves the categories empty.
// A channel failure leaves the channels empty and is returned.
// Without credentials the store is simply left empty.
func (s *ChannelStore) LoadContent(ctx context.Context, t domain.ContentType) error {
	s.mu.Lock()
	s.contentType = t
	s.categories = []domain.Category{}
	s.channels = []domain.Channel{}
	s.currentCategory = ""
	s.fetchedAll = false
	s.lastErr = nil
	s.loading = true
	s.mu.Unlock()
	defer s.setLoading(false)

	if !s.auth.HasCredentials() {
		s.logger.Debug("no credentials, skipping catalog load", "type", t)
		return nil
	}

	start := time.Now()
	creds := s.auth.Credentials()

	if err := s.loadCategories(ctx, creds, t); err != nil {
		s.logger.Warn("categories unavailable, continuing with channels", "type", t, "error", err)
	}

	count, err := s.loadChannels(ctx, creds, t, "")
	if err != nil {
		return err
	}

	s.logger.Info("catalog loaded", "type", t, "channels", count, "duration", time.Since(start))
	return nil
}

// FetchCategories reloads the categories of the current content type
func (s *ChannelStore) FetchCategories(ctx context.Context) error {
	if !s.auth.HasCredentials() {
		return nil
	}
	s.setLoading(true)
	defer s.setLoading(false)
	return s.loadCategories(ctx, s.auth.Credentials(), s.ContentType())
}

// FetchChannels reloads the channels of one category, or of all categories
// when categoryID is empty. Records without a category get categoryID.
func (s *ChannelStore) FetchChannels(ctx context.Context, categoryID string) error {
	if !s.auth.HasCredentials() {
		return nil
	}
	s.setLoading(true)
	defer s.setLoading(false)
	_, err := s.loadChannels(ctx, s.auth.Credentials(), s.ContentType(), categoryID)
	return err
}

func (s *ChannelStore) loadCategories(ctx context.Context, creds domain.Credentials, t domain.ContentType) error {
	res := s.client.Categories(ctx, creds, t)
	if !res.OK() {
		err := fmt.Errorf("fetching %s categories: %w", t, res.Err())
		s.logger.Error("failed to fetch categories", "type", t, "kind", res.Kind, "error", err)
		s.mu.Lock()
		s.categories = []domain.Category{}
		s.mu.Unlock()
		return err
	}

	categories := xtream.MapCategories(res.Data)
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	s.logger.Debug("fetched categories", "type", t, "count", len(categories))
	return nil
}

func (s *ChannelStore) loadChannels(ctx context.Context, creds domain.Credentials, t domain.ContentType, categoryID string) (int, error) {
	res := s.client.Streams(ctx, creds, t, categoryID)
	if !res.OK() {
		return 0, s.failChannels(fmt.Errorf("fetching %s channels: %w", t, res.Err()), "kind", res.Kind)
	}

	total := len(res.Data)
	channels := make([]domain.Channel, 0, total)
	for batch := range Batches(res.Data, s.batchSize, categoryID) {
		if err := ctx.Err(); err != nil {
			return 0, s.failChannels(fmt.Errorf("normalizing %s channels: %w", t, err))
		}
		channels = append(channels, batch...)
		if s.onProgress != nil {
			s.onProgress(len(channels), total)
		}
		runtime.Gosched()
	}
	channels = FilterByType(channels, t)

	s.mu.Lock()
	s.channels = channels
	s.fetchedAll = categoryID == ""
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Debug("fetched channels", "type", t, "category", categoryID, "count", len(channels))
	return len(channels), nil
}

func (s *ChannelStore) failChannels(err error, attrs ...any) error {
	s.logger.Error("failed to load channels", append(attrs, "error", err)...)
	s.mu.Lock()
	s.channels = []domain.Channel{}
	s.fetchedAll = false
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *ChannelStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// SetContentType clears the store and switches type without loading
func (s *ChannelStore) SetContentType(t domain.ContentType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentType = t
	s.categories = []domain.Category{}
	s.channels = []domain.Channel{}
	s.currentCategory = ""
	s.fetchedAll = false
	s.lastErr = nil
}

func (s *ChannelStore) SetCurrentCategory(id string) {
	s.mu.Lock()
	s.currentCategory = id
	s.mu.Unlock()
}

// Clear drops everything, used on logout and playlist switch
func (s *ChannelStore) Clear() {
	s.SetContentType(s.ContentType())
}

func (s *ChannelStore) ContentType() domain.ContentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contentType
}

func (s *ChannelStore) CurrentCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentCategory
}

func (s *ChannelStore) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

func (s *ChannelStore) Channels() []domain.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channels
}

// ChannelsByCategory returns the loaded channels of one category
func (s *ChannelStore) ChannelsByCategory(id string) []domain.Channel {
	channels := s.Channels()
	out := make([]domain.Channel, 0)
	for i := range channels {
		if channels[i].CategoryID == id {
			out = append(out, channels[i])
		}
	}
	return out
}

// CategoryCounts maps category ids to the number of loaded channels
func (s *ChannelStore) CategoryCounts() map[string]int {
	channels := s.Channels()
	counts := make(map[string]int)
	for i := range channels {
		counts[channels[i].CategoryID]++
	}
	return counts
}

func (s *ChannelStore) TotalCount() int {
	return len(s.Channels())
}

// Lookup finds a loaded channel by identity key
func (s *ChannelStore) Lookup(key string) (domain.CatalogItem, bool) {
	if key == "" {
		return nil, false
	}
	channels := s.Channels()
	for i := range channels {
		if channels[i].IdentityKey() == key {
			ch := channels[i]
			return &ch, true
		}
	}
	return nil, false
}

func (s *ChannelStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// HasFetchedAll reports whether the channels cover every category
func (s *ChannelStore) HasFetchedAll() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAll
}

// LastError is the error of the last channel load, nil after a success
// or a load skipped for missing credentials
func (s *ChannelStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
