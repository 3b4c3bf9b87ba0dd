package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Sky Sports", 20, "Sky Sports"},
		{"Sky Sports", 10, "Sky Sports"},
		{"Sky Sports News", 8, "Sky Spo…"},
		{"Sky", 1, "S"},
		{"Sky", 0, ""},
		{"Ärzte TV", 5, "Ärzt…"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestRenderListRow_FillsWidth(t *testing.T) {
	row := RenderListRow([]RowPart{{Text: "News"}, {Text: " 12"}}, true, 20)
	assert.Equal(t, 20, lipgloss.Width(row))
}
