// Package state ties the persisted parts of the app together: it restores them
// from one snapshot at startup and writes the snapshot after every change.
package state

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/favorites"
	"github.com/mmcdole/kanal/internal/playlist"
	"github.com/mmcdole/kanal/internal/session"
	"github.com/mmcdole/kanal/internal/visibility"
)

// SnapshotKey is where the root snapshot lives in the store
const SnapshotKey = "root-v1"

// Snapshot is the persisted document
type Snapshot struct {
	Playlists        playlist.State       `json:"playlists"`
	Favorites        []domain.FavoriteRef `json:"favorites"`
	HiddenCategories []string             `json:"hidden_categories"`
	Session          domain.SessionState  `json:"session"`
}

// Root owns the persisted components
type Root struct {
	Playlists  *playlist.Registry
	Favorites  *favorites.Registry
	Visibility *visibility.Overlay
	Session    *session.Session

	store  domain.SnapshotStore
	logger *slog.Logger

	mu      sync.Mutex
	loading bool
}

func New(
	store domain.SnapshotStore,
	playlists *playlist.Registry,
	favs *favorites.Registry,
	overlay *visibility.Overlay,
	sess *session.Session,
	logger *slog.Logger,
) *Root {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Root{
		Playlists:  playlists,
		Favorites:  favs,
		Visibility: overlay,
		Session:    sess,
		store:      store,
		logger:     logger,
	}
	playlists.OnChange(r.persist)
	favs.OnChange(r.persist)
	overlay.OnChange(r.persist)
	sess.OnChange(r.persist)
	return r
}

// Load restores the snapshot. A missing or unreadable snapshot starts empty.
func (r *Root) Load() {
	var snap Snapshot
	found, err := r.store.Load(SnapshotKey, &snap)
	if err != nil {
		r.logger.Error("failed to load snapshot, starting empty", "error", err)
		snap = Snapshot{}
	} else if !found {
		r.logger.Debug("no snapshot yet")
	}

	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	r.Playlists.Restore(snap.Playlists)
	r.Favorites.Restore(snap.Favorites)
	r.Visibility.Restore(snap.HiddenCategories)
	r.Session.Restore(snap.Session)
	r.migrate(snap.Session)

	r.mu.Lock()
	r.loading = false
	r.mu.Unlock()

	r.logger.Info("state restored",
		"playlists", len(snap.Playlists.Playlists),
		"favorites", len(snap.Favorites),
		"hidden", len(snap.HiddenCategories),
		"method", snap.Session.Method,
	)
	r.persist()
}

// migrate activates a playlist for snapshots written before playlists
// could be active: the one matching the saved login, else the first
func (r *Root) migrate(sess domain.SessionState) {
	if !r.Playlists.HasPlaylists() || r.Playlists.ActiveID() != "" {
		return
	}
	pl, ok := r.Playlists.Find(sess)
	if !ok {
		pl = r.Playlists.List()[0]
	}
	if err := r.Playlists.SetActive(pl.ID); err != nil {
		r.logger.Warn("failed to activate playlist during migration", "id", pl.ID, "error", err)
		return
	}
	r.logger.Info("activated playlist on startup", "id", pl.ID, "name", pl.Name)
}

// Snapshot collects the current state of every component
func (r *Root) Snapshot() Snapshot {
	return Snapshot{
		Playlists:        r.Playlists.Snapshot(),
		Favorites:        r.Favorites.Snapshot(),
		HiddenCategories: r.Visibility.Hidden(),
		Session:          r.Session.State(),
	}
}

func (r *Root) persist() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loading {
		return
	}
	if err := r.store.Save(SnapshotKey, r.Snapshot()); err != nil {
		r.logger.Error("failed to save snapshot", "error", err)
	}
}
