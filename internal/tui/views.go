package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/search"
	"github.com/mmcdole/kanal/internal/tui/components"
	"github.com/mmcdole/kanal/internal/tui/styles"
)

// categoryRows lists favorites, then the visible categories, or every
// category with hidden ones marked when showHidden is set
func categoryRows(lib Library, t domain.ContentType, showHidden bool) []components.Row {
	rows := []components.Row{{
		Label:  "Favorites",
		Marker: styles.FavoriteMark,
		Detail: strconv.Itoa(len(lib.Favorites())),
		Value:  favoritesID,
	}}

	if !showHidden {
		for _, c := range lib.Categories(t) {
			rows = append(rows, components.Row{
				Label:  c.Name(),
				Detail: strconv.Itoa(c.Count),
				Value:  c.CategoryID,
			})
		}
		return rows
	}

	hidden := make(map[string]bool)
	for _, id := range lib.Hidden() {
		hidden[id] = true
	}
	for _, c := range lib.AllCategories(t) {
		row := components.Row{Label: c.Name(), Value: c.CategoryID}
		if hidden[c.CategoryID] {
			row.Marker = styles.HiddenMark
			row.Dim = true
		}
		rows = append(rows, row)
	}
	return rows
}

func channelRow(lib Library, item domain.CatalogItem) components.Row {
	row := components.Row{Label: item.DisplayName(), Value: item}
	if lib.IsFavorite(item) {
		row.Marker = styles.FavoriteMark
	}
	if ch, ok := item.(*domain.Channel); ok && isSeries(ch) {
		row.Detail = "›"
	}
	return row
}

func channelRows(lib Library, items []domain.CatalogItem) []components.Row {
	rows := make([]components.Row, len(items))
	for i, it := range items {
		rows[i] = channelRow(lib, it)
	}
	return rows
}

// markRows re-renders the favorite marker of item in place
func markRows(lib Library, col *components.ListColumn, item domain.CatalogItem) []components.Row {
	rows := append([]components.Row(nil), col.Rows()...)
	for i, r := range rows {
		if it, ok := r.Value.(domain.CatalogItem); ok && it == item {
			rows[i] = channelRow(lib, it)
		}
	}
	return rows
}

func searchRows(lib Library, t domain.ContentType, query string, limit int) []components.Row {
	matches := search.Search(query, lib.Channels(t, ""), limit)
	rows := make([]components.Row, len(matches))
	for i, m := range matches {
		rows[i] = channelRow(lib, m.Item)
	}
	return rows
}

func episodeRows(episodes []domain.Episode) []components.Row {
	rows := make([]components.Row, len(episodes))
	for i, ep := range episodes {
		rows[i] = components.Row{
			Label:  ep.Title,
			Detail: fmt.Sprintf("S%02dE%02d", ep.Season, ep.EpisodeNum),
			Value:  ep,
		}
	}
	return rows
}

// channelMatcher filters channel rows with the catalog fuzzy filter
func channelMatcher(query string, rows []components.Row) []int {
	items := make([]domain.CatalogItem, 0, len(rows))
	pos := make(map[domain.CatalogItem]int, len(rows))
	for i, r := range rows {
		if it, ok := r.Value.(domain.CatalogItem); ok {
			items = append(items, it)
			pos[it] = i
		}
	}
	results := search.Filter(query, items)
	idx := make([]int, len(results))
	for i, res := range results {
		idx[i] = pos[res.Item]
	}
	return idx
}

func (m Model) renderBrowser() string {
	cols := []string{m.Categories.View(), m.Channels.View()}
	if m.Episodes != nil {
		cols = append(cols, m.Episodes.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		m.renderFooter(),
	)
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, t := range contentTypes {
		style := styles.TabStyle
		if t == m.ContentType {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(t.Label()))
	}
	line := strings.Join(tabs, " ")
	if src := m.Library.Source(); src != "" {
		line += "  " + styles.DimStyle.Render(string(src))
	}
	return line
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Loading:
		text := "Loading " + m.ContentType.Label() + "..."
		if m.Total > 0 {
			text = fmt.Sprintf("Loading %s · %d/%d", m.ContentType.Label(), m.Loaded, m.Total)
		}
		left = m.Spinner.View() + " " + styles.DimStyle.Render(text)
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen from the key map
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys") + "\n\n")
	for _, k := range helpBindings() {
		h := k.Help()
		b.WriteString(fmt.Sprintf("%s  %s\n",
			styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)),
			styles.HelpDescStyle.Render(h.Desc)))
	}
	b.WriteString("\n" + styles.DimStyle.Render("Press any key to return..."))

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(b.String()))
}

func (m Model) renderLogoutConfirmation() string {
	modal := `
          Log Out?

  This clears the session and
  the active playlist. Saved
  playlists are kept.

     [Y] Yes      [N] No
`
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

func (m Model) renderPrompt() string {
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		m.Prompt.View())
}

