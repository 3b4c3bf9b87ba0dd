package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kanal/internal/domain"
	"github.com/mmcdole/kanal/internal/library"
	"github.com/mmcdole/kanal/internal/tui/components"
	"github.com/mmcdole/kanal/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StatePrompt
	StateHelp
	StateConfirmLogout
)

// Library is the catalog read side the TUI drives
type Library interface {
	Load(ctx context.Context, t domain.ContentType) error
	Reload(ctx context.Context, t domain.ContentType) error
	Episodes(ctx context.Context, seriesID int) ([]domain.Episode, error)
	Categories(t domain.ContentType) []library.CategoryView
	AllCategories(t domain.ContentType) []domain.Category
	Channels(t domain.ContentType, categoryID string) []domain.CatalogItem
	Favorites() []domain.CatalogItem
	IsFavorite(item domain.CatalogItem) bool
	ToggleFavorite(item domain.CatalogItem) bool
	ToggleHidden(categoryID string) bool
	Hidden() []string
	Source() domain.SourceKind
}

// Player launches streams
type Player interface {
	Play(item domain.CatalogItem) error
	PlayEpisode(ep domain.Episode) error
}

// focus indexes
const (
	focusCategories = iota
	focusChannels
	focusEpisodes
)

// favoritesID is the pseudo category listing favorites
const favoritesID = "__favorites__"

var statusDuration = 3 * time.Second

// contentTypes is the tab order
var contentTypes = []domain.ContentType{
	domain.ContentLive,
	domain.ContentVOD,
	domain.ContentSeries,
	domain.ContentRadio,
}

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Ready bool

	// Services
	Library  Library
	Player   Player
	Logout   func()
	Progress *ProgressObserver
	logger   *slog.Logger

	// Columns
	Categories *components.ListColumn
	Channels   *components.ListColumn
	Episodes   *components.ListColumn // nil until a series is opened
	focus      int

	Prompt  components.Prompt
	Spinner spinner.Model

	ContentType domain.ContentType
	ShowHidden  bool

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	Loading     bool
	Loaded      int
	Total       int
}

// NewModel creates a new application model
func NewModel(lib Library, player Player, start domain.ContentType, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if start == "" {
		start = domain.ContentLive
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.SpinnerStyle

	channels := components.NewListColumn(components.ColumnTypeChannels, "Channels")
	channels.SetMatcher(channelMatcher)

	m := Model{
		State:       StateBrowsing,
		Library:     lib,
		Player:      player,
		logger:      logger,
		Categories:  components.NewListColumn(components.ColumnTypeCategories, start.Label()),
		Channels:    channels,
		Prompt:      components.NewPrompt(),
		Spinner:     sp,
		ContentType: start,
		Loading:     true,
	}
	m.Categories.SetFocused(true)
	m.Categories.SetLoading(true)
	m.Channels.SetLoading(true)
	return m
}

// WithLogout sets the function run when the user confirms logout
func (m Model) WithLogout(fn func()) Model {
	m.Logout = fn
	return m
}

// WithProgress makes the model listen to catalog load progress
func (m Model) WithProgress(o *ProgressObserver) Model {
	m.Progress = o
	return m
}

// Init starts loading the initial content type
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadContentCmd(m.Library, m.ContentType, false),
		ListenProgressCmd(m.Progress),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case LoadProgressMsg:
		m.Loaded, m.Total = msg.Loaded, msg.Total
		return m, ListenProgressCmd(m.Progress)

	case ContentLoadedMsg:
		if msg.Type != m.ContentType {
			// a tab switch happened while this was loading
			return m, nil
		}
		m.Loading = false
		m.Loaded, m.Total = 0, 0
		m.Categories.SetLoading(false)
		m.Channels.SetLoading(false)
		m.rebuildCategories(true)
		if msg.Err != nil {
			m.logger.Error("load failed", "type", msg.Type, "error", msg.Err)
			return m, m.setStatus(ErrMsg{Err: msg.Err, Context: "loading " + msg.Type.Label()}.Error(), true)
		}
		return m, nil

	case EpisodesLoadedMsg:
		m.Loading = false
		col := components.NewListColumn(components.ColumnTypeEpisodes, msg.Series.DisplayName())
		col.SetRows(episodeRows(msg.Episodes))
		m.Episodes = col
		m.setFocus(focusEpisodes)
		m.updateLayout()
		return m, nil

	case PlaybackStartedMsg:
		return m, m.setStatus("Launched: "+msg.Title, false)

	case LoggedOutMsg:
		return m, tea.Quit

	case ErrMsg:
		m.Loading = false
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusDuration)
}

// switchType moves to another content type and loads it
func (m *Model) switchType(t domain.ContentType) tea.Cmd {
	m.ContentType = t
	m.Episodes = nil
	m.Categories.SetTitle(t.Label())
	m.Categories.SetRows(nil)
	m.Channels.SetRows(nil)
	m.Categories.SetLoading(true)
	m.Channels.SetLoading(true)
	m.setFocus(focusCategories)
	m.updateLayout()
	m.Loading = true
	return LoadContentCmd(m.Library, t, false)
}

func (m *Model) reload() tea.Cmd {
	m.Loading = true
	m.Episodes = nil
	m.Categories.SetLoading(true)
	m.Channels.SetLoading(true)
	m.setFocus(focusCategories)
	m.updateLayout()
	return LoadContentCmd(m.Library, m.ContentType, true)
}

func (m *Model) setFocus(f int) {
	if f == focusEpisodes && m.Episodes == nil {
		f = focusChannels
	}
	m.focus = f
	m.Categories.SetFocused(f == focusCategories)
	m.Channels.SetFocused(f == focusChannels)
	if m.Episodes != nil {
		m.Episodes.SetFocused(f == focusEpisodes)
	}
}

func (m Model) focused() *components.ListColumn {
	switch m.focus {
	case focusChannels:
		return m.Channels
	case focusEpisodes:
		if m.Episodes != nil {
			return m.Episodes
		}
	}
	return m.Categories
}

// rebuildCategories refreshes the category column. reset moves the cursor
// to the top, otherwise it stays where it is.
func (m *Model) rebuildCategories(reset bool) {
	rows := categoryRows(m.Library, m.ContentType, m.ShowHidden)
	if reset {
		m.Categories.SetRows(rows)
	} else {
		m.Categories.RefreshRows(rows)
	}
	m.syncChannels(true)
}

// syncChannels shows the channels of the selected category
func (m *Model) syncChannels(reset bool) {
	row, ok := m.Categories.Selected()
	if !ok {
		m.Channels.SetTitle("Channels")
		m.Channels.SetRows(nil)
		return
	}
	id, _ := row.Value.(string)

	var items []domain.CatalogItem
	if id == favoritesID {
		items = m.Library.Favorites()
	} else {
		items = m.Library.Channels(m.ContentType, id)
	}

	m.Channels.SetTitle(row.Label)
	rows := channelRows(m.Library, items)
	if reset {
		m.Channels.SetRows(rows)
	} else {
		m.Channels.RefreshRows(rows)
	}
}

// selectedCategoryID is the id under the category cursor
func (m Model) selectedCategoryID() string {
	row, ok := m.Categories.Selected()
	if !ok {
		return ""
	}
	id, _ := row.Value.(string)
	return id
}

func (m Model) selectedItem() (domain.CatalogItem, bool) {
	row, ok := m.Channels.Selected()
	if !ok {
		return nil, false
	}
	item, ok := row.Value.(domain.CatalogItem)
	return item, ok
}

func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmLogout:
		return m.renderLogoutConfirmation()
	case StatePrompt:
		return m.renderPrompt()
	}
	return m.renderBrowser()
}
