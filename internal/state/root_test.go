package state

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mmcdole/kanal/internal/catalog"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/favorites"
	"github.com/mmcdole/kanal/internal/playlist"
	"github.com/mmcdole/kanal/internal/session"
	"github.com/mmcdole/kanal/internal/store"
	"github.com/mmcdole/kanal/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot(t *testing.T, s domain.SnapshotStore) *Root {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := playlist.NewRegistry(logger)
	sess := session.New(registry, catalog.NewM3UStore(nil, logger), nil, logger)
	return New(s, registry, favorites.New(), visibility.New(), sess, logger)
}

func TestRoot_PersistsEveryMutation(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(dir)
	require.NoError(t, err)

	root := newRoot(t, db)
	root.Load()

	pl := root.Playlists.Add(playlist.Profile{Type: domain.PlaylistM3U, M3UURL: "http://host/a.m3u"})
	require.NoError(t, root.Playlists.SetActive(pl.ID))
	root.Favorites.Toggle(&domain.M3UChannel{ID: "ch-1"})
	root.Visibility.Toggle("7")
	require.NoError(t, db.Close())

	db, err = store.Open(dir)
	require.NoError(t, err)
	defer db.Close()

	restored := newRoot(t, db)
	restored.Load()

	assert.Equal(t, pl.ID, restored.Playlists.ActiveID())
	assert.True(t, restored.Favorites.IsFavorite(domain.SourceM3U, "ch-1"))
	assert.True(t, restored.Visibility.IsHidden("7"))
}

func TestRoot_MigrationPrefersSessionPlaylist(t *testing.T) {
	db, err := store.Open("")
	require.NoError(t, err)
	require.NoError(t, db.Save(SnapshotKey, Snapshot{
		Playlists: playlist.State{Playlists: []domain.Playlist{
			{ID: "a", Name: "A", Type: domain.PlaylistM3U, M3UURL: "http://host/a.m3u"},
			{ID: "b", Name: "B", Type: domain.PlaylistM3U, M3UURL: "http://host/b.m3u"},
		}},
		Session: domain.SessionState{Method: domain.PlaylistM3U, M3UURL: "http://host/b.m3u"},
	}))

	root := newRoot(t, db)
	root.Load()

	assert.Equal(t, "b", root.Playlists.ActiveID())
	assert.Equal(t, "http://host/b.m3u", root.Session.M3UURL())

	var saved Snapshot
	found, err := db.Load(SnapshotKey, &saved)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "b", saved.Playlists.ActiveID)
}

func TestRoot_MigrationFallsBackToFirst(t *testing.T) {
	db, err := store.Open("")
	require.NoError(t, err)
	require.NoError(t, db.Save(SnapshotKey, Snapshot{
		Playlists: playlist.State{Playlists: []domain.Playlist{
			{ID: "a", Type: domain.PlaylistM3U, M3UURL: "http://host/a.m3u"},
			{ID: "b", Type: domain.PlaylistM3U, M3UURL: "http://host/b.m3u"},
		}},
	}))

	root := newRoot(t, db)
	root.Load()

	assert.Equal(t, "a", root.Playlists.ActiveID())
}

func TestRoot_NoMigrationWhenSomethingIsActive(t *testing.T) {
	db, err := store.Open("")
	require.NoError(t, err)
	require.NoError(t, db.Save(SnapshotKey, Snapshot{
		Playlists: playlist.State{
			Playlists: []domain.Playlist{{ID: "a"}, {ID: "b"}},
			ActiveID:  "b",
		},
	}))

	root := newRoot(t, db)
	root.Load()

	assert.Equal(t, "b", root.Playlists.ActiveID())
}

type brokenStore struct {
	saves int
}

func (s *brokenStore) Load(string, any) (bool, error) { return false, errors.New("disk on fire") }
func (s *brokenStore) Save(string, any) error { s.saves++; return nil }
func (s *brokenStore) Close() error { return nil }

func TestRoot_LoadFailureStartsEmpty(t *testing.T) {
	s := &brokenStore{}
	root := newRoot(t, s)

	root.Load()

	assert.False(t, root.Playlists.HasPlaylists())
	assert.False(t, root.Session.IsAuthenticated())
	assert.Empty(t, root.Favorites.Snapshot())
	assert.Equal(t, 1, s.saves)

	root.Visibility.Toggle("x")
	assert.Equal(t, 2, s.saves)
}
