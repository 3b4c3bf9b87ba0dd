// Package playlist keeps the saved connection profiles and which one is active
package playlist

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/kanal/internal/domain"
)

// Profile is what the user enters to save a playlist
type Profile struct {
	Name      string
	Type      domain.PlaylistType
	ServerURL string
	Username  string
	Password  string `masq:"secret"`
	M3UURL    string
}

// State is the persisted form of the registry
type State struct {
	Playlists []domain.Playlist `json:"playlists"`
	ActiveID  string            `json:"active_id,omitempty"`
}

// Registry holds the saved playlists. Nothing becomes active implicitly;
// callers activate with SetActive.
type Registry struct {
	logger *slog.Logger
	newID  func() string
	now    func() time.Time

	mu        sync.RWMutex
	playlists []domain.Playlist
	activeID  string
	onChange  func()
}

// Option configures a Registry
type Option func(*Registry)

// WithClock replaces time.Now for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDs replaces the uuid generator
func WithIDs(newID func() string) Option {
	return func(r *Registry) { r.newID = newID }
}

func NewRegistry(logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
		playlists: []domain.Playlist{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnChange registers a callback run after every mutation, outside the lock
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Registry) changed() {
	r.mu.RLock()
	fn := r.onChange
	r.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Add saves a new playlist with a fresh id. Unnamed playlists are
// called "Playlist N".
func (r *Registry) Add(p Profile) domain.Playlist {
	r.mu.Lock()
	pl := r.appendLocked(p)
	r.mu.Unlock()

	r.logger.Info("playlist added", "id", pl.ID, "name", pl.Name, "type", pl.Type)
	r.changed()
	return pl
}

func (r *Registry) appendLocked(p Profile) domain.Playlist {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = fmt.Sprintf("Playlist %d", len(r.playlists)+1)
	}
	pl := domain.Playlist{
		ID:        r.newID(),
		Name:      name,
		Type:      p.Type,
		ServerURL: strings.TrimSpace(p.ServerURL),
		Username:  strings.TrimSpace(p.Username),
		Password:  p.Password,
		M3UURL:    strings.TrimSpace(p.M3UURL),
		CreatedAt: r.now(),
	}
	r.playlists = append(slices.Clone(r.playlists), pl)
	return pl
}

// Ensure returns the existing playlist for the same server and user (or the
// same M3U URL), refreshing its password, and adds one otherwise. The lookup
// and the insert happen under one lock, so concurrent logins to the same
// account share a playlist.
func (r *Registry) Ensure(p Profile) domain.Playlist {
	r.mu.Lock()
	i := slices.IndexFunc(r.playlists, profileMatcher(p))
	if i < 0 {
		pl := r.appendLocked(p)
		r.mu.Unlock()
		r.logger.Info("playlist added", "id", pl.ID, "name", pl.Name, "type", pl.Type)
		r.changed()
		return pl
	}

	pl := r.playlists[i]
	if p.Type != domain.PlaylistXtream || pl.Password == p.Password {
		r.mu.Unlock()
		return pl
	}
	pl.Password = p.Password
	playlists := slices.Clone(r.playlists)
	playlists[i] = pl
	r.playlists = playlists
	r.mu.Unlock()

	r.logger.Info("playlist password refreshed", "id", pl.ID)
	r.changed()
	return pl
}

// Update applies fn to the playlist with id. The id and creation time
// cannot be changed.
func (r *Registry) Update(id string, fn func(*domain.Playlist)) (domain.Playlist, error) {
	r.mu.Lock()
	i := r.index(id)
	if i < 0 {
		r.mu.Unlock()
		return domain.Playlist{}, fmt.Errorf("updating %q: %w", id, domain.ErrPlaylistNotFound)
	}
	pl := r.playlists[i]
	fn(&pl)
	pl.ID = r.playlists[i].ID
	pl.CreatedAt = r.playlists[i].CreatedAt
	playlists := slices.Clone(r.playlists)
	playlists[i] = pl
	r.playlists = playlists
	r.mu.Unlock()

	r.logger.Info("playlist updated", "id", id)
	r.changed()
	return pl, nil
}

// Remove deletes a playlist and deactivates it if it was active
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	i := r.index(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("removing %q: %w", id, domain.ErrPlaylistNotFound)
	}
	r.playlists = slices.Delete(slices.Clone(r.playlists), i, i+1)
	if r.activeID == id {
		r.activeID = ""
	}
	r.mu.Unlock()

	r.logger.Info("playlist removed", "id", id)
	r.changed()
	return nil
}

func (r *Registry) SetActive(id string) error {
	r.mu.Lock()
	if r.index(id) < 0 {
		r.mu.Unlock()
		return fmt.Errorf("activating %q: %w", id, domain.ErrPlaylistNotFound)
	}
	r.activeID = id
	r.mu.Unlock()

	r.logger.Info("playlist activated", "id", id)
	r.changed()
	return nil
}

func (r *Registry) ClearActive() {
	r.mu.Lock()
	was := r.activeID
	r.activeID = ""
	r.mu.Unlock()

	if was != "" {
		r.logger.Info("playlist deactivated", "id", was)
		r.changed()
	}
}

// Restore replaces the registry contents without notifying OnChange.
// An active id that no longer exists is dropped.
func (r *Registry) Restore(s State) {
	playlists := slices.Clone(s.Playlists)
	if playlists == nil {
		playlists = []domain.Playlist{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playlists = playlists
	r.activeID = ""
	if r.index(s.ActiveID) >= 0 {
		r.activeID = s.ActiveID
	}
}

// index must be called with the lock held
func (r *Registry) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(r.playlists, func(p domain.Playlist) bool { return p.ID == id })
}
