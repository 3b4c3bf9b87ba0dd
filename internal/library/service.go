// Package library is the read side the UI and CLI use. It picks the
// authoritative catalog for the current login and layers favorites and
// hidden categories on top.
package library

import (
	"context"
	"log/slog"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/catalog"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/favorites"
	"github.com/mmcdole/kanal/internal/visibility"
)

// Session is the part of the login the library reads
type Session interface {
	Method() domain.PlaylistType
	M3UURL() string
	SeriesInfo(ctx context.Context, seriesID int) xtream.Result[xtream.SeriesInfoDTO]
}

// CategoryView is a category with the number of channels in it
type CategoryView struct {
	domain.Category
	Count int
}

type Service struct {
	session    Session
	channels   *catalog.ChannelStore
	m3u        *catalog.M3UStore
	favorites  *favorites.Registry
	visibility *visibility.Overlay
	logger     *slog.Logger
}

func NewService(
	session Session,
	channels *catalog.ChannelStore,
	m3u *catalog.M3UStore,
	favs *favorites.Registry,
	overlay *visibility.Overlay,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		session:    session,
		channels:   channels,
		m3u:        m3u,
		favorites:  favs,
		visibility: overlay,
		logger:     logger,
	}
}

// Source is the catalog kind of the current login, empty when logged out
func (s *Service) Source() domain.SourceKind {
	switch s.session.Method() {
	case domain.PlaylistXtream:
		return domain.SourceXtream
	case domain.PlaylistM3U:
		return domain.SourceM3U
	}
	return ""
}

// Loading reports whether the authoritative store is loading
func (s *Service) Loading() bool {
	if s.Source() == domain.SourceM3U {
		return s.m3u.IsLoading()
	}
	return s.channels.IsLoading()
}

// Err is the last load error of the authoritative store
func (s *Service) Err() error {
	if s.Source() == domain.SourceM3U {
		return s.m3u.Err()
	}
	return s.channels.LastError()
}

// Reset drops both catalogs, used when the login changes
func (s *Service) Reset() {
	s.channels.Clear()
	s.m3u.Clear()
}

