// Package session tracks the current login and switches between playlists
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/catalog"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/playlist"
	"github.com/mmcdole/kanal/internal/redact"
)

// ClientFactory builds an Xtream client for a panel URL
type ClientFactory func(baseURL string) (*xtream.Client, error)

// Session is the current login. It implements domain.AuthSession and
// forwards catalog requests to the client of the logged-in panel.
type Session struct {
	registry  *playlist.Registry
	m3u       *catalog.M3UStore
	newClient ClientFactory
	logger    *slog.Logger

	mu       sync.RWMutex
	state    domain.SessionState
	client   *xtream.Client
	onChange func()
}

var _ domain.AuthSession = (*Session)(nil)

func New(registry *playlist.Registry, m3u *catalog.M3UStore, newClient ClientFactory, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if newClient == nil {
		newClient = func(baseURL string) (*xtream.Client, error) {
			return xtream.NewClient(baseURL, xtream.WithLogger(logger))
		}
	}
	return &Session{registry: registry, m3u: m3u, newClient: newClient, logger: logger}
}

// OnChange registers a callback run after the login changes
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) changed() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Login authenticates against an Xtream panel, saves the playlist (or reuses
// the saved one for the same server and user) and activates it
func (s *Session) Login(ctx context.Context, serverURL, username, password, name string) (domain.Playlist, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Playlist{}, fmt.Errorf("login: %w", domain.ErrMissingCredentials)
	}

	client, err := s.newClient(serverURL)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("login: %w", err)
	}
	creds := domain.Credentials{ServerURL: client.BaseURL(), Username: username, Password: password}

	res := client.Authenticate(ctx, creds)
	if !res.OK() {
		s.logger.Warn("xtream login failed", "server", creds.ServerURL, "username", username, "kind", res.Kind)
		return domain.Playlist{}, fmt.Errorf("login to %s: %w", creds.ServerURL, res.Err())
	}

	s.mu.Lock()
	s.state = domain.SessionState{Method: domain.PlaylistXtream, Credentials: creds}
	s.client = client
	s.mu.Unlock()
	s.m3u.Clear()

	pl := s.registry.Ensure(playlist.Profile{
		Name:      name,
		Type:      domain.PlaylistXtream,
		ServerURL: creds.ServerURL,
		Username:  username,
		Password:  password,
	})
	if err := s.registry.SetActive(pl.ID); err != nil {
		return domain.Playlist{}, err
	}

	s.logger.Info("logged in", "server", creds.ServerURL, "username", username, "playlist", pl.ID)
	s.changed()
	return pl, nil
}

// LoginM3U loads the playlist at url and, once it parsed, saves and activates it
func (s *Session) LoginM3U(ctx context.Context, url, name string) (domain.Playlist, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.Playlist{}, fmt.Errorf("login: %w", domain.ErrMissingCredentials)
	}
	if err := s.m3u.LoadPlaylist(ctx, url); err != nil {
		return domain.Playlist{}, err
	}

	s.mu.Lock()
	s.state = domain.SessionState{Method: domain.PlaylistM3U, M3UURL: url}
	s.client = nil
	s.mu.Unlock()

	pl := s.registry.Ensure(playlist.Profile{Name: name, Type: domain.PlaylistM3U, M3UURL: url})
	if err := s.registry.SetActive(pl.ID); err != nil {
		return domain.Playlist{}, err
	}

	s.logger.Info("opened m3u playlist", "url", redact.URL(url), "playlist", pl.ID, "channels", len(s.m3u.Channels()))
	s.changed()
	return pl, nil
}

// Select logs into a saved playlist
func (s *Session) Select(ctx context.Context, id string) (domain.Playlist, error) {
	pl, ok := s.registry.Get(id)
	if !ok {
		return domain.Playlist{}, fmt.Errorf("selecting %q: %w", id, domain.ErrPlaylistNotFound)
	}
	switch pl.Type {
	case domain.PlaylistXtream:
		return s.Login(ctx, pl.ServerURL, pl.Username, pl.Password, pl.Name)
	case domain.PlaylistM3U:
		return s.LoginM3U(ctx, pl.M3UURL, pl.Name)
	}
	return domain.Playlist{}, fmt.Errorf("selecting %q: %w", id, domain.ErrUnsupportedSource)
}

// Refresh re-authenticates the Xtream login or reloads the M3U playlist
func (s *Session) Refresh(ctx context.Context) error {
	state := s.State()
	switch state.Method {
	case domain.PlaylistXtream:
		client, err := s.Client()
		if err != nil {
			return err
		}
		if res := client.Authenticate(ctx, state.Credentials); !res.OK() {
			return fmt.Errorf("refreshing login: %w", res.Err())
		}
		return nil
	case domain.PlaylistM3U:
		return s.m3u.LoadPlaylist(ctx, state.M3UURL)
	}
	return fmt.Errorf("refresh: %w", domain.ErrMissingCredentials)
}

// Logout forgets the login, drops the M3U entries and deactivates the playlist.
// Saved playlists are kept.
func (s *Session) Logout() {
	s.mu.Lock()
	s.state = domain.SessionState{}
	s.client = nil
	s.mu.Unlock()

	s.m3u.Clear()
	s.registry.ClearActive()
	s.logger.Info("logged out")
	s.changed()
}

// Restore reinstates a persisted login without contacting the server
func (s *Session) Restore(state domain.SessionState) {
	var client *xtream.Client
	if state.Method == domain.PlaylistXtream && state.Credentials.ServerURL != "" {
		c, err := s.newClient(state.Credentials.ServerURL)
		if err != nil {
			s.logger.Warn("dropping saved login with invalid server", "server", redact.URL(state.Credentials.ServerURL), "error", err)
			state = domain.SessionState{}
		} else {
			client = c
		}
	}
	s.mu.Lock()
	s.state = state
	s.client = client
	s.mu.Unlock()
}

// State returns the persisted form of the login
func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Client returns the Xtream client of the current login
func (s *Session) Client() (*xtream.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, domain.ErrMissingCredentials
	}
	return s.client, nil
}

func (s *Session) Method() domain.PlaylistType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Method
}

func (s *Session) Credentials() domain.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Credentials
}

func (s *Session) M3UURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.M3UURL
}

// HasCredentials reports a complete Xtream login
func (s *Session) HasCredentials() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Method == domain.PlaylistXtream && s.state.Credentials.Complete() && s.client != nil
}

// IsAuthenticated reports whether either kind of login is in place
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state.Method {
	case domain.PlaylistXtream:
		return s.state.Credentials.Complete()
	case domain.PlaylistM3U:
		return s.state.M3UURL != ""
	}
	return false
}
