package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/tui/components"
	"github.com/mmcdole/kanal/internal/visibility"
)

// searchLimit caps global search results
const searchLimit = 200

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return m, LogoutCmd(m.Logout)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StatePrompt:
		return m.handlePrompt(msg)
	}

	col := m.focused()

	// Typing into a filter takes every key
	if col.IsFilterTyping() {
		_, cmd := col.Update(msg)
		if col == m.Categories {
			m.syncChannels(true)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if col.IsFiltering() {
			col.ClearFilter()
			if col == m.Categories {
				m.syncChannels(true)
			}
			return m, nil
		}
		return m.handleBack()

	case key.Matches(msg, Keys.Filter):
		col.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.openPrompt(components.PromptSearch)
		return m, nil

	case key.Matches(msg, Keys.GotoCategory):
		m.openPrompt(components.PromptGoto)
		return m, nil

	case key.Matches(msg, Keys.NextType):
		return m, m.switchType(nextType(m.ContentType, 1))

	case key.Matches(msg, Keys.PrevType):
		return m, m.switchType(nextType(m.ContentType, -1))

	case key.Matches(msg, Keys.Refresh):
		if m.Loading {
			return m, nil
		}
		return m, m.reload()

	case key.Matches(msg, Keys.Favorites):
		m.jumpToFavorites()
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		return m, m.toggleFavorite()

	case key.Matches(msg, Keys.Hide):
		return m, m.toggleHidden()

	case key.Matches(msg, Keys.ShowHidden):
		m.ShowHidden = !m.ShowHidden
		m.rebuildCategories(false)
		if m.ShowHidden {
			return m, m.setStatus("Showing hidden categories", false)
		}
		return m, m.setStatus("Hiding hidden categories", false)

	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
		return m, nil

	case key.Matches(msg, Keys.Back):
		return m.handleBack()

	case key.Matches(msg, Keys.Enter):
		return m.handleEnter()
	}

	// Navigation inside the focused column
	before := col.SelectedIndex()
	_, cmd := col.Update(msg)
	if col == m.Categories && col.SelectedIndex() != before {
		m.syncChannels(true)
	}
	return m, cmd
}

func (m *Model) openPrompt(kind components.PromptKind) {
	m.State = StatePrompt
	switch kind {
	case components.PromptSearch:
		m.Prompt.Open(kind, "Search "+m.ContentType.Label(), "name, typos ok...",
			"enter to search · esc to cancel")
	case components.PromptGoto:
		m.Prompt.Open(kind, "Go to category", "category name...",
			"closest match in "+m.ContentType.Label())
	}
}

func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var res components.PromptResult
	m.Prompt, cmd, res = m.Prompt.Update(msg)
	if res == components.PromptPending {
		return m, cmd
	}

	kind, value := m.Prompt.Kind(), m.Prompt.Value()
	m.Prompt.Close()
	m.State = StateBrowsing
	if res == components.PromptCancelled {
		return m, nil
	}

	switch kind {
	case components.PromptSearch:
		m.showSearchResults(value)
	case components.PromptGoto:
		if !m.gotoCategory(value) {
			return m, m.setStatus("No category matches "+value, true)
		}
	}
	return m, nil
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusCategories:
		if _, ok := m.Categories.Selected(); ok {
			m.setFocus(focusChannels)
		}
		return m, nil

	case focusChannels:
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		if ch, ok := item.(*domain.Channel); ok && isSeries(ch) {
			m.Loading = true
			return m, LoadEpisodesCmd(m.Library, ch)
		}
		return m, PlayCmd(m.Player, item)

	case focusEpisodes:
		row, ok := m.Episodes.Selected()
		if !ok {
			return m, nil
		}
		if ep, ok := row.Value.(domain.Episode); ok {
			return m, PlayEpisodeCmd(m.Player, ep)
		}
	}
	return m, nil
}

func (m Model) handleBack() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusEpisodes:
		m.Episodes = nil
		m.setFocus(focusChannels)
		m.updateLayout()
	case focusChannels:
		if m.Channels.ColumnType() == components.ColumnTypeResults {
			m.Channels = m.newChannelColumn(components.ColumnTypeChannels)
			m.syncChannels(true)
		}
		m.setFocus(focusCategories)
	}
	return m, nil
}

func (m *Model) newChannelColumn(t components.ColumnType) *components.ListColumn {
	col := components.NewListColumn(t, "Channels")
	col.SetMatcher(channelMatcher)
	m.Channels = col
	m.updateLayout()
	return col
}

// showSearchResults replaces the channel column with ranked matches
// across the whole content type
func (m *Model) showSearchResults(query string) {
	if query == "" {
		return
	}
	col := m.newChannelColumn(components.ColumnTypeResults)
	col.SetTitle("Search: " + query)
	col.SetRows(searchRows(m.Library, m.ContentType, query, searchLimit))
	m.Episodes = nil
	m.setFocus(focusChannels)
	m.updateLayout()
}

// gotoCategory selects the best fuzzy match for query among the listed
// categories and focuses its channels
func (m *Model) gotoCategory(query string) bool {
	m.Categories.ClearFilter()
	rows := m.Categories.Rows()
	matches := components.LabelMatcher(query, rows)
	if len(matches) == 0 {
		return false
	}
	m.Categories.SetSelectedIndex(matches[0])
	m.syncChannels(true)
	m.Episodes = nil
	m.setFocus(focusChannels)
	m.updateLayout()
	return true
}

func (m *Model) jumpToFavorites() {
	m.Categories.ClearFilter()
	m.Categories.SetSelectedIndex(0)
	m.syncChannels(true)
	m.Episodes = nil
	m.setFocus(focusChannels)
	m.updateLayout()
}

func (m *Model) toggleFavorite() tea.Cmd {
	if m.focus != focusChannels {
		return nil
	}
	item, ok := m.selectedItem()
	if !ok {
		return nil
	}
	added := m.Library.ToggleFavorite(item)

	if m.Channels.ColumnType() == components.ColumnTypeResults {
		m.Channels.RefreshRows(markRows(m.Library, m.Channels, item))
	} else {
		m.syncChannels(false)
	}

	if added {
		return m.setStatus("Added to favorites: "+item.DisplayName(), false)
	}
	return m.setStatus("Removed from favorites: "+item.DisplayName(), false)
}

func (m *Model) toggleHidden() tea.Cmd {
	if m.focus != focusCategories {
		return nil
	}
	id := m.selectedCategoryID()
	if id == "" || id == favoritesID || id == visibility.AllCategoryID {
		return nil
	}
	hidden := m.Library.ToggleHidden(id)
	m.rebuildCategories(false)
	if hidden {
		return m.setStatus("Category hidden", false)
	}
	return m.setStatus("Category visible", false)
}

func nextType(t domain.ContentType, step int) domain.ContentType {
	i := slices.Index(contentTypes, t)
	if i < 0 {
		return contentTypes[0]
	}
	n := len(contentTypes)
	return contentTypes[((i+step)%n+n)%n]
}

func isSeries(ch *domain.Channel) bool {
	return ch.StreamType == "series" || (ch.StreamID == 0 && ch.SeriesID != 0)
}
