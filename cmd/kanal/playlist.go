package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/kanal/internal/adapter/source/xtream"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/spf13/cobra"
)

const loginTimeout = time.Minute

func newPlaylistCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "playlist",
		Aliases: []string{"playlists", "pl"},
		Short:   "Manage saved playlists",
	}
	cmd.AddCommand(
		newAddXtreamCmd(c),
		newAddM3UCmd(c),
		newPlaylistListCmd(c),
		newPlaylistUseCmd(c),
		newPlaylistRemoveCmd(c),
		newPlaylistRefreshCmd(c),
	)
	return cmd
}

func newAddXtreamCmd(c *cli) *cobra.Command {
	var username, password, name string
	cmd := &cobra.Command{
		Use:   "add-xtream <server-url>",
		Short: "Log into an Xtream Codes panel and save it as the active playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, pass, err := xtream.PromptCredentials(c.in, cmd.OutOrStdout(), username, password)
			if err != nil {
				return err
			}
			a, err := c.open()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()
			pl, err := a.session.Login(ctx, args[0], user, pass, name)
			if err != nil {
				return err
			}
			a.library.Reset()
			printOK(cmd.OutOrStdout(), "Logged in to %s as %s (playlist %q)", pl.ServerURL, pl.Username, pl.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "panel username (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "panel password (prompted without echo when empty)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "playlist name")
	return cmd
}

func newAddM3UCmd(c *cli) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add-m3u <url>",
		Short: "Load an M3U playlist and save it as the active playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()
			pl, err := a.session.LoginM3U(ctx, args[0], name)
			if err != nil {
				return err
			}
			a.library.Reset()
			printOK(cmd.OutOrStdout(), "Opened %s (playlist %q)", pl.M3UURL, pl.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "playlist name")
	return cmd
}

func newPlaylistListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved playlists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			active := a.playlists.ActiveID()
			var rows [][]string
			for _, pl := range a.playlists.List() {
				mark := ""
				if pl.ID == active {
					mark = "*"
				}
				rows = append(rows, []string{mark, pl.ID, pl.Name, string(pl.Type), playlistSource(pl)})
			}
			printTable(cmd.OutOrStdout(), []string{"", "ID", "Name", "Type", "Source"}, rows)
			return nil
		},
	}
}

// playlistSource never includes the password
func playlistSource(pl domain.Playlist) string {
	if pl.Type == domain.PlaylistM3U {
		return pl.M3UURL
	}
	return pl.Username + " @ " + pl.ServerURL
}

// findPlaylist accepts an id, an id prefix or a name
func findPlaylist(a *app, ref string) (domain.Playlist, error) {
	if pl, ok := a.playlists.Get(ref); ok {
		return pl, nil
	}
	var matches []domain.Playlist
	for _, pl := range a.playlists.List() {
		if strings.HasPrefix(pl.ID, ref) || strings.EqualFold(pl.Name, ref) {
			matches = append(matches, pl)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Playlist{}, fmt.Errorf("%q: %w", ref, domain.ErrPlaylistNotFound)
	case 1:
		return matches[0], nil
	}
	return domain.Playlist{}, fmt.Errorf("%q matches %d playlists, use the id", ref, len(matches))
}

func newPlaylistUseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id|name>",
		Short: "Log into a saved playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			pl, err := findPlaylist(a, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()
			if _, err := a.session.Select(ctx, pl.ID); err != nil {
				return err
			}
			a.library.Reset()
			printOK(cmd.OutOrStdout(), "Using %q", pl.Name)
			return nil
		},
	}
}

func newPlaylistRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved playlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			pl, err := findPlaylist(a, args[0])
			if err != nil {
				return err
			}
			wasActive := a.playlists.ActiveID() == pl.ID
			if err := a.playlists.Remove(pl.ID); err != nil {
				return err
			}
			if wasActive {
				a.logout()
			}
			printOK(cmd.OutOrStdout(), "Removed %q", pl.Name)
			return nil
		},
	}
}

func newPlaylistRefreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-check the active login or re-download the M3U playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			if !a.session.IsAuthenticated() {
				return errNoSession
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
			defer cancel()
			if err := a.session.Refresh(ctx); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Refreshed")
			return nil
		},
	}
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the active login; saved playlists are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			a.logout()
			printOK(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

