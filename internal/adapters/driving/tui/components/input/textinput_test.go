package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/messages"
	"github.com/Mg12345-web/IA-Babix/internal/adapters/driving/tui/styles"
)

func TestNewQueryInput(t *testing.T) {
	in := NewQueryInput(nil)

	require.NotNil(t, in)
	assert.True(t, in.Focused())
	assert.Equal(t, messages.ModeSearch, in.Mode())
	assert.Equal(t, searchPlaceholder, in.Placeholder())
	assert.Equal(t, 50, in.Width())
}

func TestQueryInput_ToggleMode(t *testing.T) {
	in := NewQueryInput(styles.DefaultStyles())

	in.ToggleMode()
	assert.Equal(t, messages.ModeRecord, in.Mode())
	assert.Equal(t, recordPlaceholder, in.Placeholder())
	assert.Contains(t, in.View(), "record")

	in.ToggleMode()
	assert.Equal(t, messages.ModeSearch, in.Mode())
	assert.Contains(t, in.View(), "search")
}

func TestQueryInput_Typing(t *testing.T) {
	in := NewQueryInput(nil)

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("multa")})

	assert.Equal(t, "multa", in.Value())
	in.Reset()
	assert.Empty(t, in.Value())
}

func TestQueryInput_FocusBlur(t *testing.T) {
	in := NewQueryInput(nil)

	in.Blur()
	assert.False(t, in.Focused())
	in.Focus()
	assert.True(t, in.Focused())
}

func TestQueryInput_SetWidth(t *testing.T) {
	in := NewQueryInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())

	in.SetWidth(10)
	assert.Equal(t, 10, in.Width())
}
