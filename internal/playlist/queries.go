package playlist

import (
	"net/url"
	"slices"
	"strings"

	"github.com/mmcdole/kanal/internal/domain"
)

// Active returns the active playlist, if any
func (r *Registry) Active() (domain.Playlist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(r.activeID); i >= 0 {
		return r.playlists[i], true
	}
	return domain.Playlist{}, false
}

// ActiveID is empty when nothing is active
func (r *Registry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// List returns the playlists in the order they were added
func (r *Registry) List() []domain.Playlist {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.playlists)
}

func (r *Registry) Get(id string) (domain.Playlist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return r.playlists[i], true
	}
	return domain.Playlist{}, false
}

func (r *Registry) HasPlaylists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.playlists) > 0
}

// FindXtream looks up a playlist by server and user. Server URLs compare
// without a trailing slash and with a case-insensitive scheme and host.
func (r *Registry) FindXtream(serverURL, username string) (domain.Playlist, bool) {
	return r.find(profileMatcher(Profile{Type: domain.PlaylistXtream, ServerURL: serverURL, Username: username}))
}

// FindM3U looks up a playlist by its M3U URL, compared like FindXtream
// compares server URLs
func (r *Registry) FindM3U(m3uURL string) (domain.Playlist, bool) {
	return r.find(profileMatcher(Profile{Type: domain.PlaylistM3U, M3UURL: m3uURL}))
}

// profileMatcher matches the saved playlist a profile would duplicate
func profileMatcher(p Profile) func(domain.Playlist) bool {
	switch p.Type {
	case domain.PlaylistXtream:
		server := sameURL(p.ServerURL)
		username := strings.TrimSpace(p.Username)
		return func(pl domain.Playlist) bool {
			return pl.Type == domain.PlaylistXtream && sameURL(pl.ServerURL) == server && pl.Username == username
		}
	case domain.PlaylistM3U:
		target := sameURL(p.M3UURL)
		return func(pl domain.Playlist) bool {
			return pl.Type == domain.PlaylistM3U && sameURL(pl.M3UURL) == target
		}
	}
	return func(domain.Playlist) bool { return false }
}

// Find returns the first playlist matching the session, either by M3U URL
// or by Xtream server and user
func (r *Registry) Find(s domain.SessionState) (domain.Playlist, bool) {
	switch s.Method {
	case domain.PlaylistM3U:
		return r.FindM3U(s.M3UURL)
	case domain.PlaylistXtream:
		return r.FindXtream(s.Credentials.ServerURL, s.Credentials.Username)
	}
	return domain.Playlist{}, false
}

// Snapshot returns the persisted form
func (r *Registry) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State{Playlists: slices.Clone(r.playlists), ActiveID: r.activeID}
}

func (r *Registry) find(match func(domain.Playlist) bool) (domain.Playlist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.playlists {
		if match(p) {
			return p, true
		}
	}
	return domain.Playlist{}, false
}

// sameURL is the comparison form of a URL: trimmed, without trailing
// slashes, scheme and host lowercased. Paths and queries keep their case
// because providers put account names there.
func sameURL(u string) string {
	u = strings.TrimSpace(u)
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return strings.TrimRight(u, "/")
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.RawPath = ""
	return parsed.String()
}
