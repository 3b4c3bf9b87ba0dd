package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kanal/internal/adapter"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/tui"
	"github.com/spf13/cobra"
)

// cli holds what the commands share: flags, config, logger and the wired app
type cli struct {
	in io.Reader

	configDir string
	dataDir   string
	logLevel  string
	typeFlag  string

	cfg    *adapter.Config
	logger *slog.Logger
	app    *app
}

// execute runs one command line. The store is closed even when the command fails.
func execute(args []string, in io.Reader, out io.Writer) error {
	c := &cli{in: in}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	err := root.Execute()
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:     "kanal",
		Short:   "Terminal IPTV client for Xtream Codes panels and M3U playlists",
		Version: Version,
		Long: `kanal browses live TV, movies, series and radio from Xtream Codes
panels or M3U playlists and plays them in an external player.

Run without arguments to open the browser. Add a playlist first with
"kanal playlist add-xtream" or "kanal playlist add-m3u".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configDir, "config-dir", adapter.ConfigDir(), "directory holding config.yaml")
	flags.StringVar(&c.dataDir, "data-dir", "", "where playlists and favorites are stored (default from config)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVarP(&c.typeFlag, "type", "t", "", "content type: live, vod, series or radio (default from config)")

	root.AddCommand(
		newPlaylistCmd(c),
		newLogoutCmd(c),
		newCategoriesCmd(c),
		newChannelsCmd(c),
		newSearchCmd(c),
		newPlayCmd(c),
		newEpisodesCmd(c),
		newFavoritesCmd(c),
		newFavoriteCmd(c),
		newHideCmd(c),
		newConfigCmd(c),
	)
	return root
}

// init loads config and the logger. Flags win over env and config only
// when set explicitly.
func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := adapter.LoadConfigFrom(c.configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir = c.dataDir
		cfg.Logging.File = filepath.Join(c.dataDir, "kanal.log")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = c.logLevel
	}
	c.cfg = cfg

	logger := adapter.NullLogger()
	if cfg.Storage.DataDir != "" {
		if l, err := adapter.SetupLogger(&cfg.Logging); err == nil {
			logger = l
		}
	}
	slog.SetDefault(logger)
	c.logger = logger
	logger.Info("starting kanal", "version", Version, "command", cmd.CommandPath())
	return nil
}

// open wires the app on first use
func (c *cli) open() (*app, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := newApp(c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// contentType is --type, or the configured default
func (c *cli) contentType() (domain.ContentType, error) {
	if c.typeFlag == "" {
		return c.cfg.ContentType(), nil
	}
	return domain.ParseContentType(c.typeFlag)
}

func (c *cli) runTUI() error {
	a, err := c.open()
	if err != nil {
		return err
	}
	if !a.session.IsAuthenticated() {
		return errNoSession
	}
	t, err := c.contentType()
	if err != nil {
		return err
	}

	model := tui.NewModel(a.library, a.playback, t, c.logger).
		WithLogout(a.logout).
		WithProgress(a.progress)

	p := tea.NewProgram(model, tea.WithAltScreen())
	c.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		c.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	c.logger.Info("shutting down")
	return nil
}
