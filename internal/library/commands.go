package library

import (
	"context"
	"fmt"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/redact"
)

// Load fills the authoritative catalog for content type t. M3U playlists
// hold every type at once and are only fetched when not loaded yet.
func (s *Service) Load(ctx context.Context, t domain.ContentType) error {
	switch s.session.Method() {
	case domain.PlaylistXtream:
		return s.channels.LoadContent(ctx, t)
	case domain.PlaylistM3U:
		url := s.session.M3UURL()
		if s.m3u.URL() == url && len(s.m3u.Channels()) > 0 {
			s.logger.Debug("m3u playlist already loaded", "url", redact.URL(url))
			return nil
		}
		return s.m3u.LoadPlaylist(ctx, url)
	}
	return fmt.Errorf("loading %s: %w", t, domain.ErrMissingCredentials)
}

// Reload refetches the catalog even when an M3U playlist is already loaded
func (s *Service) Reload(ctx context.Context, t domain.ContentType) error {
	if s.session.Method() == domain.PlaylistM3U {
		return s.m3u.LoadPlaylist(ctx, s.session.M3UURL())
	}
	return s.Load(ctx, t)
}

// Episodes lists the episodes of an Xtream series by season, then number
func (s *Service) Episodes(ctx context.Context, seriesID int) ([]domain.Episode, error) {
	if s.session.Method() != domain.PlaylistXtream {
		return nil, fmt.Errorf("episodes: %w", domain.ErrUnsupportedSource)
	}
	res := s.session.SeriesInfo(ctx, seriesID)
	if !res.OK() {
		s.logger.Error("failed to fetch series info", "seriesID", seriesID, "kind", res.Kind)
		return nil, fmt.Errorf("series %d: %w", seriesID, res.Err())
	}
	info := xtream.MapSeriesInfo(res.Data)
	s.logger.Debug("fetched episodes", "seriesID", seriesID, "count", len(info.Episodes))
	return info.Episodes, nil
}

// ToggleFavorite adds or removes item and reports whether it is a favorite now
func (s *Service) ToggleFavorite(item domain.CatalogItem) bool {
	return s.favorites.Toggle(item)
}

// ToggleHidden hides or shows a category and reports whether it is hidden now
func (s *Service) ToggleHidden(categoryID string) bool {
	return s.visibility.Toggle(categoryID)
}
