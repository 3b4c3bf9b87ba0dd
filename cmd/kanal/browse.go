package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/search"
	"github.com/spf13/cobra"
)

const catalogTimeout = 2 * time.Minute

// loaded opens the app and loads the requested content type
func (c *cli) loaded(ctx context.Context) (*app, domain.ContentType, error) {
	t, err := c.contentType()
	if err != nil {
		return nil, "", err
	}
	a, err := c.open()
	if err != nil {
		return nil, "", err
	}
	if !a.session.IsAuthenticated() {
		return nil, "", errNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()
	if err := a.library.Load(ctx, t); err != nil {
		return nil, "", err
	}
	return a, t, nil
}

func newCategoriesCmd(c *cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List categories with channel counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, t, err := c.loaded(cmd.Context())
			if err != nil {
				return err
			}

			var rows [][]string
			if all {
				hidden := make(map[string]bool)
				for _, id := range a.library.Hidden() {
					hidden[id] = true
				}
				for _, cat := range a.library.AllCategories(t) {
					state := ""
					if hidden[cat.CategoryID] {
						state = "hidden"
					}
					rows = append(rows, []string{cat.CategoryID, cat.Name(), "", state})
				}
			} else {
				for _, cat := range a.library.Categories(t) {
					rows = append(rows, []string{cat.CategoryID, cat.Name(), strconv.Itoa(cat.Count), ""})
				}
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Channels", ""}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden categories")
	return cmd
}

func itemRows(a *app, items []domain.CatalogItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		fav := ""
		if a.library.IsFavorite(it) {
			fav = "★"
		}
		rows = append(rows, []string{it.IdentityKey(), it.DisplayName(), itemGroup(it), fav})
	}
	return rows
}

func itemGroup(it domain.CatalogItem) string {
	switch v := it.(type) {
	case *domain.Channel:
		return v.CategoryID
	case *domain.M3UChannel:
		return v.Group
	}
	return ""
}

var itemHeaders = []string{"ID", "Name", "Category", ""}

func newChannelsCmd(c *cli) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "channels [category-id]",
		Short: "List the channels of a category, or of every visible category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, t, err := c.loaded(cmd.Context())
			if err != nil {
				return err
			}
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			items := a.library.Channels(t, category)
			if filter != "" {
				results := search.Filter(filter, items)
				items = make([]domain.CatalogItem, len(results))
				for i, r := range results {
					items[i] = r.Item
				}
			}
			printTable(cmd.OutOrStdout(), itemHeaders, itemRows(a, items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter on the channel name")
	return cmd
}

func newSearchCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Typo tolerant search across every visible category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, t, err := c.loaded(cmd.Context())
			if err != nil {
				return err
			}
			matches := search.Search(strings.Join(args, " "), a.library.Channels(t, ""), limit)
			items := make([]domain.CatalogItem, len(matches))
			for i, m := range matches {
				items[i] = m.Item
			}
			printTable(cmd.OutOrStdout(), itemHeaders, itemRows(a, items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum results")
	return cmd
}

// resolveItem finds an item by id, then by best search match
func resolveItem(a *app, t domain.ContentType, ref string) (domain.CatalogItem, error) {
	if item, ok := a.library.Lookup(ref); ok {
		return item, nil
	}
	matches := search.Search(ref, a.library.Channels(t, ""), 1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no channel matches %q", ref)
	}
	return matches[0].Item, nil
}

func newPlayCmd(c *cli) *cobra.Command {
	var printURL bool
	cmd := &cobra.Command{
		Use:   "play <id|name>",
		Short: "Play a channel or movie in the external player",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, t, err := c.loaded(cmd.Context())
			if err != nil {
				return err
			}
			item, err := resolveItem(a, t, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if printURL {
				req, err := a.playback.Request(item)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), req.URL)
				return nil
			}
			if err := a.playback.Play(item); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Playing %s", item.DisplayName())
			return nil
		},
	}
	cmd.Flags().BoolVar(&printURL, "url", false, "print the stream URL instead of launching the player")
	return cmd
}

func newEpisodesCmd(c *cli) *cobra.Command {
	var play string
	cmd := &cobra.Command{
		Use:   "episodes <series-id>",
		Short: "List the episodes of a series, or play one with --play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("series id must be a number: %q", args[0])
			}
			a, err := c.open()
			if err != nil {
				return err
			}
			if !a.session.IsAuthenticated() {
				return errNoSession
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), catalogTimeout)
			defer cancel()
			episodes, err := a.library.Episodes(ctx, seriesID)
			if err != nil {
				return err
			}

			if play != "" {
				for _, ep := range episodes {
					if ep.ID == play {
						if err := a.playback.PlayEpisode(ep); err != nil {
							return err
						}
						printOK(cmd.OutOrStdout(), "Playing %s", ep.Title)
						return nil
					}
				}
				return fmt.Errorf("series %d has no episode %q", seriesID, play)
			}

			rows := make([][]string, len(episodes))
			for i, ep := range episodes {
				rows[i] = []string{ep.ID, fmt.Sprintf("S%02dE%02d", ep.Season, ep.EpisodeNum), ep.Title, ep.Duration}
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Episode", "Title", "Duration"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&play, "play", "", "episode id to play")
	return cmd
}

func newFavoritesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "List favorites of the active playlist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := c.loaded(cmd.Context())
			if err != nil {
				return err
			}
			printTable(cmd.OutOrStdout(), itemHeaders, itemRows(a, a.library.Favorites()))
			return nil
		},
	}
}

func newFavoriteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <id|name>",
		Aliases: []string{"fav"},
		Short:   "Add or remove a favorite",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, t, err := c.loaded(cmd.Context())
			if err != nil {
				return err
			}
			item, err := resolveItem(a, t, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if a.library.ToggleFavorite(item) {
				printOK(cmd.OutOrStdout(), "Added %s to favorites", item.DisplayName())
			} else {
				printOK(cmd.OutOrStdout(), "Removed %s from favorites", item.DisplayName())
			}
			return nil
		},
	}
}

func newHideCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "hide <category-id>",
		Short: "Hide a category, or show it again if hidden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open()
			if err != nil {
				return err
			}
			if a.library.ToggleHidden(args[0]) {
				printOK(cmd.OutOrStdout(), "Category %s hidden", args[0])
			} else {
				printOK(cmd.OutOrStdout(), "Category %s visible", args[0])
			}
			return nil
		},
	}
}
