package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/kanal/internal/adapter"
	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
)

// ErrNotPlayable is returned for items that need a drill-down first, like a series
var ErrNotPlayable = errors.New("item is not directly playable")

// launcher abstracts media player launching (consumer-defined interface)
type launcher interface {
	Launch(req adapter.StreamRequest) error
}

// streamSource is the part of the session playback needs
type streamSource interface {
	Client() (*xtream.Client, error)
	Credentials() domain.Credentials
}

// StreamSettings are the per-request options from config
type StreamSettings struct {
	Format    string
	UserAgent string
	Referrer  string
}

// PlaybackService turns catalog items into stream requests and launches them
type PlaybackService struct {
	launcher launcher
	source   streamSource
	settings StreamSettings
	logger   *slog.Logger
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(
	launcher launcher,
	source streamSource,
	settings StreamSettings,
	logger *slog.Logger,
) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Format == "" {
		settings.Format = xtream.FormatTS
	}
	return &PlaybackService{
		launcher: launcher,
		source:   source,
		settings: settings,
		logger:   logger,
	}
}

// Play launches a channel, movie or M3U entry
func (s *PlaybackService) Play(item domain.CatalogItem) error {
	req, err := s.Request(item)
	if err != nil {
		s.logger.Error("failed to resolve stream", "error", err, "name", item.DisplayName())
		return err
	}
	s.logger.Info("launching playback", "name", req.Title, "source", item.Source())
	return s.launcher.Launch(req)
}

// PlayEpisode launches one episode of an Xtream series
func (s *PlaybackService) PlayEpisode(ep domain.Episode) error {
	client, err := s.source.Client()
	if err != nil {
		return err
	}
	req := s.base(ep.Title)
	req.URL = client.EpisodeURL(s.source.Credentials(), ep.ID, ep.ContainerExtension)

	s.logger.Info("launching episode", "name", ep.Title, "season", ep.Season, "episode", ep.EpisodeNum)
	return s.launcher.Launch(req)
}

// Request resolves the stream URL and headers for an item without launching it
func (s *PlaybackService) Request(item domain.CatalogItem) (adapter.StreamRequest, error) {
	switch it := item.(type) {
	case *domain.M3UChannel:
		if it.URL == "" {
			return adapter.StreamRequest{}, fmt.Errorf("%w: %s has no url", ErrNotPlayable, it.Name)
		}
		req := s.base(it.Name)
		req.URL = it.URL
		req.Headers = it.Headers
		return req, nil

	case *domain.Channel:
		client, err := s.source.Client()
		if err != nil {
			return adapter.StreamRequest{}, err
		}
		creds := s.source.Credentials()
		req := s.base(it.DisplayName())

		switch {
		case it.StreamType == "series" || (it.StreamID == 0 && it.SeriesID != 0):
			return adapter.StreamRequest{}, fmt.Errorf("%w: %s is a series", ErrNotPlayable, it.DisplayName())
		case it.StreamID == 0:
			return adapter.StreamRequest{}, fmt.Errorf("%w: %s has no stream id", ErrNotPlayable, it.DisplayName())
		case it.StreamType == "movie" || (it.StreamType == "" && it.ContainerExtension != ""):
			req.URL = client.MovieURL(creds, it.StreamID, it.ContainerExtension)
		default:
			req.URL = client.LiveURL(creds, it.StreamID, s.settings.Format)
		}
		return req, nil
	}
	return adapter.StreamRequest{}, ErrNotPlayable
}

func (s *PlaybackService) base(title string) adapter.StreamRequest {
	return adapter.StreamRequest{
		Title:     title,
		UserAgent: s.settings.UserAgent,
		Referrer:  s.settings.Referrer,
	}
}
