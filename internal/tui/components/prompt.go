package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kanal/internal/tui/styles"
)

// PromptKind says what a submitted prompt is for
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptSearch
	PromptGoto
)

// PromptResult is what Update reports back to the model
type PromptResult int

const (
	PromptPending PromptResult = iota
	PromptSubmitted
	PromptCancelled
)

const promptWidth = 40

// Prompt is a one line text box floated over the browser. One instance
// serves every prompt; Kind tells the model which action to run.
type Prompt struct {
	kind  PromptKind
	title string
	hint  string
	input textinput.Model
}

func NewPrompt() Prompt {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = promptWidth - 4
	ti.Prompt = "› "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	return Prompt{input: ti}
}

// Open shows the prompt for kind, clearing any previous text
func (p *Prompt) Open(kind PromptKind, title, placeholder, hint string) {
	p.kind = kind
	p.title = title
	p.hint = hint
	p.input.Placeholder = placeholder
	p.input.SetValue("")
	p.input.Focus()
}

func (p *Prompt) Close() {
	p.kind = PromptNone
	p.input.Blur()
}

func (p Prompt) Kind() PromptKind { return p.kind }

func (p Prompt) IsOpen() bool { return p.kind != PromptNone }

// Value is the entered text with surrounding blanks removed
func (p Prompt) Value() string {
	return strings.TrimSpace(p.input.Value())
}

// Update feeds a message to the text box. A blank submit counts as a cancel.
func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd, PromptResult) {
	if !p.IsOpen() {
		return p, nil, PromptPending
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if p.Value() == "" {
				return p, nil, PromptCancelled
			}
			return p, nil, PromptSubmitted
		case "esc":
			return p, nil, PromptCancelled
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, PromptPending
}

func (p Prompt) View() string {
	if !p.IsOpen() {
		return ""
	}

	line := lipgloss.NewStyle().Width(promptWidth)
	rows := []string{
		line.Inherit(styles.TitleStyle).Render(p.title),
		"",
		line.Render(p.input.View()),
	}
	if p.hint != "" {
		rows = append(rows, "", line.Inherit(styles.DimStyle).Render(p.hint))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
