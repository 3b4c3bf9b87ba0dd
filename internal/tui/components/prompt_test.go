package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeInto(p Prompt, text string) Prompt {
	for _, r := range text {
		p, _, _ = p.Update(keyMsg(string(r)))
	}
	return p
}

func TestPrompt_SubmitTrimsValue(t *testing.T) {
	p := NewPrompt()
	p.Open(PromptSearch, "Search Live", "name...", "")
	require.True(t, p.IsOpen())

	p = typeInto(p, "  bbc ")
	p, _, res := p.Update(keyMsg("enter"))

	assert.Equal(t, PromptSubmitted, res)
	assert.Equal(t, PromptSearch, p.Kind())
	assert.Equal(t, "bbc", p.Value())
}

func TestPrompt_BlankSubmitCancels(t *testing.T) {
	p := NewPrompt()
	p.Open(PromptGoto, "Go to category", "", "")

	p = typeInto(p, "   ")
	_, _, res := p.Update(keyMsg("enter"))
	assert.Equal(t, PromptCancelled, res)
}

func TestPrompt_EscCancels(t *testing.T) {
	p := NewPrompt()
	p.Open(PromptGoto, "Go to category", "", "")
	p = typeInto(p, "news")

	_, _, res := p.Update(keyMsg("esc"))
	assert.Equal(t, PromptCancelled, res)
}

func TestPrompt_ReopenClearsText(t *testing.T) {
	p := NewPrompt()
	p.Open(PromptSearch, "Search", "", "")
	p = typeInto(p, "old")
	p.Close()
	assert.False(t, p.IsOpen())
	assert.Equal(t, PromptNone, p.Kind())

	p.Open(PromptGoto, "Go to category", "", "")
	assert.Empty(t, p.Value())
	assert.Equal(t, PromptGoto, p.Kind())
}

func TestPrompt_ClosedIgnoresKeys(t *testing.T) {
	p := NewPrompt()
	p, _, res := p.Update(keyMsg("enter"))
	assert.Equal(t, PromptPending, res)
	assert.Empty(t, p.View())
}

func TestPrompt_ViewShowsTitleAndHint(t *testing.T) {
	p := NewPrompt()
	p.Open(PromptGoto, "Go to category", "category name...", "closest match in Live")

	view := p.View()
	assert.Contains(t, view, "Go to category")
	assert.Contains(t, view, "closest match in Live")
}
