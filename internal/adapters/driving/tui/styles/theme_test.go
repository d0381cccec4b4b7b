package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme_EveryColourHasBothVariants(t *testing.T) {
	theme := DefaultTheme()

	for name, c := range map[string]struct{ Light, Dark string }{
		"accent":  {theme.Accent.Light, theme.Accent.Dark},
		"amber":   {theme.Amber.Light, theme.Amber.Dark},
		"text":    {theme.Text.Light, theme.Text.Dark},
		"faint":   {theme.Faint.Light, theme.Faint.Dark},
		"good":    {theme.Good.Light, theme.Good.Dark},
		"caution": {theme.Caution.Light, theme.Caution.Dark},
		"bad":     {theme.Bad.Light, theme.Bad.Dark},
		"frame":   {theme.Frame.Light, theme.Frame.Dark},
		"bar":     {theme.Bar.Light, theme.Bar.Dark},
	} {
		assert.NotEmpty(t, c.Light, name)
		assert.NotEmpty(t, c.Dark, name)
	}
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[string]bool)
	for _, dark := range []string{theme.Accent.Dark, theme.Amber.Dark, theme.Good.Dark, theme.Caution.Dark, theme.Bad.Dark} {
		assert.False(t, seen[dark], "duplicate colour: %s", dark)
		seen[dark] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	assert.Same(t, theme, NewStyles(theme).Theme())

	s := NewStyles(nil)
	require.NotNil(t, s.Theme())
	assert.True(t, s.Title.GetBold())
}

func TestStyles_Severity(t *testing.T) {
	s := DefaultStyles()

	assert.True(t, s.Severity("Gravíssima (3X)").GetBold())
	assert.True(t, s.Severity("  gravissima").GetBold())
	assert.Equal(t, s.severity["grave"], s.Severity("Grave"))
	assert.Equal(t, s.severity["média"], s.Severity("Média"))
	assert.Equal(t, s.Normal, s.Severity("desconhecida"))
	assert.Equal(t, s.Normal, s.Severity(""))
}

func TestPlainStyles_RenderUnchanged(t *testing.T) {
	s := PlainStyles()

	assert.Equal(t, "596-70", s.Code.Render("596-70"))
	assert.Equal(t, "manual.pdf", s.Citation.Render("manual.pdf"))
	assert.Equal(t, "Babix", s.Title.Render("Babix"))
	assert.Equal(t, "Gravíssima", s.Severity("Gravíssima").Render("Gravíssima"))
}
