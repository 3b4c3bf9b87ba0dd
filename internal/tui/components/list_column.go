package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kanal/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Spinner frames for loading animation
var listColumnSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for list columns
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable, filterable list of rows
type ListColumn struct {
	rows       []Row
	columnType ColumnType
	matcher    Matcher

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	loading      bool
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into rows
}

// NewListColumn creates a new list column with the given type and title
func NewListColumn(colType ColumnType, title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		columnType:  colType,
		title:       title,
		filterInput: ti,
		matcher:     LabelMatcher,
	}
}

// LabelMatcher fuzzy matches row labels, ignoring case
func LabelMatcher(query string, rows []Row) []int {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = strings.ToLower(r.Label)
	}
	matches := fuzzy.Find(strings.ToLower(query), labels)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	return idx
}

// SetMatcher replaces the filter used by "/"
func (c *ListColumn) SetMatcher(m Matcher) {
	if m == nil {
		m = LabelMatcher
	}
	c.matcher = m
}

func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	// Typing into the filter
	if c.filterActive && c.filterInput.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				c.clearFilter()
				return c, nil
			case "enter":
				// keep the results, navigate them
				c.filterInput.Blur()
				return c, nil
			case "backspace":
				if c.filterInput.Value() == "" {
					c.clearFilter()
					return c, nil
				}
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			if c.cursor < count-1 {
				c.cursor++
			}
		case "k", "up":
			if c.cursor > 0 {
				c.cursor--
			}
		case "g", "home":
			c.cursor = 0
		case "G", "end":
			c.cursor = count - 1
		case "ctrl+d", "pgdown":
			c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
		case "ctrl+u", "pgup":
			c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
		}
		c.ensureVisible()
	}

	return c, nil
}

func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(c.width-frameW, 1)).
		Height(max(c.height-frameH, 1)).
		Render(c.renderContent())
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) Width() int { return c.width }

func (c *ListColumn) SetFocused(focused bool) { c.focused = focused }

func (c *ListColumn) IsFocused() bool { return c.focused }

func (c *ListColumn) Title() string { return c.title }

func (c *ListColumn) SetTitle(title string) { c.title = title }

func (c *ListColumn) ColumnType() ColumnType { return c.columnType }

// Selected returns the row under the cursor
func (c *ListColumn) Selected() (Row, bool) {
	if c.cursor >= c.ItemCount() {
		return Row{}, false
	}
	return c.rows[c.mapIndex(c.cursor)], true
}

func (c *ListColumn) SelectedIndex() int { return c.cursor }

func (c *ListColumn) SetSelectedIndex(idx int) {
	c.cursor = max(min(idx, c.ItemCount()-1), 0)
	c.ensureVisible()
}

// ItemCount is the number of rows after filtering
func (c *ListColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.rows)
}

func (c *ListColumn) SetLoading(loading bool) { c.loading = loading }

func (c *ListColumn) IsLoading() bool { return c.loading }

func (c *ListColumn) SetSpinnerFrame(frame int) { c.spinnerFrame = frame }

// Rows returns the unfiltered rows
func (c *ListColumn) Rows() []Row { return c.rows }

// SetRows replaces the content, resetting cursor and filter
func (c *ListColumn) SetRows(rows []Row) {
	c.loading = false
	c.rows = rows
	c.cursor = 0
	c.offset = 0
	c.clearFilter()
}

// RefreshRows replaces the content but keeps the cursor and an active filter
func (c *ListColumn) RefreshRows(rows []Row) {
	c.loading = false
	c.rows = rows
	if c.filterActive {
		c.applyFilter()
	}
	c.SetSelectedIndex(c.cursor)
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool { return c.filterActive }

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all rows
func (c *ListColumn) ClearFilter() { c.clearFilter() }

func (c *ListColumn) recalcMaxVisible() {
	// title line + scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := strings.TrimSpace(c.filterInput.Value())
	c.filterQuery = query
	if query == "" {
		c.filteredIdx = nil
		return
	}

	c.filteredIdx = c.matcher(query, c.rows)
	if c.filteredIdx == nil {
		c.filteredIdx = []int{}
	}
	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

func (c *ListColumn) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if c.loading {
		spinner := listColumnSpinnerFrames[c.spinnerFrame%len(listColumnSpinnerFrames)]
		return titleLine + "\n \n" + styles.DimStyle.Render(spinner+" Loading...") + "\n "
	}

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := "No items"
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(emptyMsg) + "\n "
		if c.filterActive {
			content += "\n" + c.filterInput.View()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, renderRow(c.rows[c.mapIndex(i)], i == c.cursor, itemWidth))
	}

	// header and footer always take a line so the layout does not shift
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.filterInput.View()
	}
	return content
}

func renderRow(r Row, selected bool, width int) string {
	var parts []styles.RowPart
	used := 2
	if r.Marker != "" {
		parts = append(parts, styles.RowPart{Text: r.Marker + " "})
		used += lipgloss.Width(r.Marker) + 1
	}

	detail := ""
	if r.Detail != "" {
		detail = " " + r.Detail
	}
	labelWidth := width - used - lipgloss.Width(detail)
	label := styles.Truncate(r.Label, labelWidth)

	var fg *lipgloss.Color
	if r.Dim {
		fg = &styles.DimGray
	}
	parts = append(parts, styles.RowPart{Text: label, Foreground: fg})

	if detail != "" {
		gap := labelWidth - lipgloss.Width(label)
		if gap > 0 {
			parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap)})
		}
		parts = append(parts, styles.RowPart{Text: detail, Foreground: &styles.DimGray})
	}
	return styles.RenderListRow(parts, selected, width)
}
