package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	m3ufetch "github.com/mmcdole/kanal/internal/adapter/source/m3u"
	"github.com/mmcdole/kanal/internal/catalog"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/playlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const m3uBody = "#EXTM3U\n#EXTINF:-1 group-title=\"News\",News One\nhttp://cdn/live/1.ts\n"

type fixture struct {
	session  *Session
	registry *playlist.Registry
	m3u      *catalog.M3UStore
	panel    *httptest.Server
	lists    *httptest.Server
	changes  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	panel := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("password") != "right" {
			io.WriteString(w, `{"user_info": {"auth": 0}}`)
			return
		}
		switch q.Get("action") {
		case "":
			io.WriteString(w, `{"user_info": {"username": "alice", "auth": 1}}`)
		case "get_live_categories":
			io.WriteString(w, `[{"category_id": "1", "category_name": "News"}]`)
		default:
			io.WriteString(w, `[]`)
		}
	}))
	t.Cleanup(panel.Close)

	lists := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/good.m3u" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, m3uBody)
	}))
	t.Cleanup(lists.Close)

	registry := playlist.NewRegistry(logger)
	m3u := catalog.NewM3UStore(m3ufetch.NewFetcher(m3ufetch.WithLogger(logger)), logger)
	f := &fixture{registry: registry, m3u: m3u, panel: panel, lists: lists}
	f.session = New(registry, m3u, nil, logger)
	f.session.OnChange(func() { f.changes++ })
	return f
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	pl, err := f.session.Login(context.Background(), f.panel.URL+"/player_api.php", "alice", "right", "Home")

	require.NoError(t, err)
	assert.Equal(t, "Home", pl.Name)
	assert.Equal(t, f.panel.URL, pl.ServerURL)
	assert.Equal(t, pl.ID, f.registry.ActiveID())
	assert.True(t, f.session.IsAuthenticated())
	assert.True(t, f.session.HasCredentials())
	assert.Equal(t, domain.PlaylistXtream, f.session.Method())
	assert.Equal(t, "alice", f.session.Credentials().Username)
	assert.Equal(t, 1, f.changes)

	res := f.session.Categories(context.Background(), f.session.Credentials(), domain.ContentLive)
	require.True(t, res.OK())
	assert.Len(t, res.Data, 1)
}

func TestLogin_SameAccountReusesPlaylist(t *testing.T) {
	f := newFixture(t)

	first, err := f.session.Login(context.Background(), f.panel.URL, "alice", "right", "")
	require.NoError(t, err)
	second, err := f.session.Login(context.Background(), f.panel.URL+"/", "alice", "right", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.registry.List(), 1)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.Login(context.Background(), f.panel.URL, "alice", "wrong", "")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)

	_, err = f.session.Login(context.Background(), "://", "alice", "right", "")
	assert.ErrorIs(t, err, domain.ErrInvalidBaseURL)

	_, err = f.session.Login(context.Background(), f.panel.URL, "", "right", "")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)

	assert.False(t, f.registry.HasPlaylists())
	assert.False(t, f.session.IsAuthenticated())
	assert.Zero(t, f.changes)
}

func TestLoginM3U(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.Login(context.Background(), f.panel.URL, "alice", "right", "")
	require.NoError(t, err)

	pl, err := f.session.LoginM3U(context.Background(), f.lists.URL+"/good.m3u", "")

	require.NoError(t, err)
	assert.Equal(t, domain.PlaylistM3U, pl.Type)
	assert.Equal(t, "Playlist 2", pl.Name)
	assert.Equal(t, pl.ID, f.registry.ActiveID())
	assert.Len(t, f.m3u.Channels(), 1)
	assert.True(t, f.session.IsAuthenticated())
	assert.False(t, f.session.HasCredentials())
	_, err = f.session.Client()
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestLoginM3U_FailureSavesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.LoginM3U(context.Background(), f.lists.URL+"/missing.m3u", "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, f.registry.HasPlaylists())
	assert.False(t, f.session.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.LoginM3U(context.Background(), f.lists.URL+"/good.m3u", "")
	require.NoError(t, err)

	f.session.Logout()

	assert.False(t, f.session.IsAuthenticated())
	assert.Empty(t, f.registry.ActiveID())
	assert.Empty(t, f.m3u.Channels())
	assert.True(t, f.registry.HasPlaylists(), "saved playlists survive logout")
	assert.ErrorIs(t, f.session.Refresh(context.Background()), domain.ErrMissingCredentials)
}

func TestSelect(t *testing.T) {
	f := newFixture(t)
	saved := f.registry.Add(playlist.Profile{Type: domain.PlaylistXtream, ServerURL: f.panel.URL, Username: "alice", Password: "right"})

	pl, err := f.session.Select(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, pl.ID)
	assert.Equal(t, saved.ID, f.registry.ActiveID())
	assert.NoError(t, f.session.Refresh(context.Background()))

	_, err = f.session.Select(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestRestore(t *testing.T) {
	f := newFixture(t)

	f.session.Restore(domain.SessionState{
		Method:      domain.PlaylistXtream,
		Credentials: domain.Credentials{ServerURL: f.panel.URL, Username: "alice", Password: "right"},
	})

	assert.True(t, f.session.HasCredentials())
	assert.Zero(t, f.changes)
	client, err := f.session.Client()
	require.NoError(t, err)
	assert.Equal(t, f.panel.URL, client.BaseURL())

	f.session.Restore(domain.SessionState{
		Method:      domain.PlaylistXtream,
		Credentials: domain.Credentials{ServerURL: "://", Username: "a", Password: "b"},
	})
	assert.False(t, f.session.IsAuthenticated())
}
