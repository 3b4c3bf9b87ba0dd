package tui

// Layout proportions
const (
	// [Categories | Channels]
	CategoryPercent2 = 35

	// [Categories | Channels | Episodes]
	CategoryPercent3 = 25
	ChannelPercent3  = 35

	MinColumnWidth = 15

	// tabs line + footer line
	ChromeHeight = 2
)

// columnLayout holds calculated column widths
type columnLayout struct {
	categories int
	channels   int
	episodes   int // 0 if not shown
}

func calculateColumnLayout(width int, withEpisodes bool) columnLayout {
	applyMin := func(w int) int { return max(w, MinColumnWidth) }

	if !withEpisodes {
		l := columnLayout{categories: applyMin(width * CategoryPercent2 / 100)}
		l.channels = applyMin(width - l.categories)
		return l
	}

	l := columnLayout{
		categories: applyMin(width * CategoryPercent3 / 100),
		channels:   applyMin(width * ChannelPercent3 / 100),
	}
	l.episodes = applyMin(width - l.categories - l.channels)
	return l
}

// updateLayout sizes the columns to the window
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	height := m.Height - ChromeHeight
	l := calculateColumnLayout(m.Width, m.Episodes != nil)

	m.Categories.SetSize(l.categories, height)
	m.Channels.SetSize(l.channels, height)
	if m.Episodes != nil {
		m.Episodes.SetSize(l.episodes, height)
	}
}
