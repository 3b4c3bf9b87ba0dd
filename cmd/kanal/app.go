package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/kanal/internal/adapter"
	m3usrc "github.com/mmcdole/kanal/internal/adapter/source/m3u"
	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/catalog"
	"github.com/mmcdole/kanal/internal/favorites"
	"github.com/mmcdole/kanal/internal/library"
	"github.com/mmcdole/kanal/internal/playlist"
	"github.com/mmcdole/kanal/internal/service"
	"github.com/mmcdole/kanal/internal/session"
	"github.com/mmcdole/kanal/internal/state"
	"github.com/mmcdole/kanal/internal/store"
	"github.com/mmcdole/kanal/internal/tui"
	"github.com/mmcdole/kanal/internal/visibility"
)

var errNoSession = errors.New(`no active playlist: add one with "kanal playlist add-xtream" or "kanal playlist add-m3u"`)

// app is the wired object graph behind every command
type app struct {
	store     *store.SnapshotStore
	playlists *playlist.Registry
	session   *session.Session
	library   *library.Service
	playback  *service.PlaybackService
	progress  *tui.ProgressObserver
	logger    *slog.Logger
}

func newApp(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}

	fetcher := m3usrc.NewFetcher(
		m3usrc.WithTimeout(cfg.Stream.M3UTimeout),
		m3usrc.WithUserAgent(cfg.Stream.UserAgent),
		m3usrc.WithReferrer(cfg.Stream.Referrer),
		m3usrc.WithLogger(logger),
	)
	newClient := func(baseURL string) (*xtream.Client, error) {
		return xtream.NewClient(baseURL,
			xtream.WithTimeout(cfg.Stream.Timeout),
			xtream.WithUserAgent(cfg.Stream.UserAgent),
			xtream.WithLogger(logger),
		)
	}

	playlists := playlist.NewRegistry(logger)
	favs := favorites.New()
	overlay := visibility.New()
	m3uStore := catalog.NewM3UStore(fetcher, logger)
	sess := session.New(playlists, m3uStore, newClient, logger)

	progress := tui.NewProgressObserver()
	channels := catalog.NewChannelStore(sess, sess, logger, catalog.WithProgress(progress.OnProgress))

	root := state.New(st, playlists, favs, overlay, sess, logger)
	root.Load()

	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)
	playback := service.NewPlaybackService(launcher, sess, service.StreamSettings{
		Format:    cfg.Stream.Format,
		UserAgent: cfg.Stream.UserAgent,
		Referrer:  cfg.Stream.Referrer,
	}, logger)

	return &app{
		store:     st,
		playlists: playlists,
		session:   sess,
		library:   library.NewService(sess, channels, m3uStore, favs, overlay, logger),
		playback:  playback,
		progress:  progress,
		logger:    logger,
	}, nil
}

// logout ends the session and drops both catalogs
func (a *app) logout() {
	a.session.Logout()
	a.library.Reset()
}

func (a *app) Close() error {
	return a.store.Close()
}
