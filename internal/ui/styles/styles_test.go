package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/compleet/internal/surface"
)

func resetTheme(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { require.NoError(t, ApplyTheme(nil)) })
}

func TestGroup_Defaults(t *testing.T) {
	for name, want := range map[string]lipgloss.Color{
		GroupMenu:          "#C0CAF5",
		GroupMenuSelected:  "#7AA2F7",
		GroupMenuBorder:    "#565F89",
		GroupMatchingChars: "#FF9E64",
	} {
		require.Equal(t, want, Group(name).GetForeground(), name)
	}
	require.True(t, Group(GroupMatchingChars).GetBold())
	require.True(t, Group(GroupMenuSelected).GetReverse())
}

func TestGroup_Unknown(t *testing.T) {
	require.Equal(t, "x", Group("Nope").Render("x"))
}

func TestApplyTheme(t *testing.T) {
	resetTheme(t)

	require.NoError(t, ApplyTheme(map[string]string{"menu.selected": "#112233"}))
	require.Equal(t, lipgloss.Color("#112233"), Group(GroupMenuSelected).GetForeground())
	require.Equal(t, lipgloss.Color("#C0CAF5"), Group(GroupMenu).GetForeground())

	require.NoError(t, ApplyTheme(nil))
	require.Equal(t, lipgloss.Color("#7AA2F7"), Group(GroupMenuSelected).GetForeground(), "no overrides restores the defaults")
}

func TestColor(t *testing.T) {
	resetTheme(t)

	require.Equal(t, lipgloss.Color("#F7768E"), Color(TokenToastError))

	require.NoError(t, ApplyTheme(map[string]string{"toast.error": "#AA0000"}))
	require.Equal(t, lipgloss.Color("#AA0000"), Color(TokenToastError))
	require.Equal(t, lipgloss.Color("#9ECE6A"), Color(TokenToastSuccess))
}

func TestApplyTheme_Errors(t *testing.T) {
	resetTheme(t)

	err := ApplyTheme(map[string]string{"text.primary": "#112233"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown color token: text.primary")

	err = ApplyTheme(map[string]string{"menu.border": "blue"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid hex color for menu.border")
}

func TestLipglossBorder_Named(t *testing.T) {
	tests := map[string]lipgloss.Border{
		surface.BorderSingle:  lipgloss.NormalBorder(),
		surface.BorderDouble:  lipgloss.DoubleBorder(),
		surface.BorderRounded: lipgloss.RoundedBorder(),
		surface.BorderSolid:   lipgloss.HiddenBorder(),
		surface.BorderShadow:  shadowBorder,
	}
	for name, want := range tests {
		style, err := surface.NamedBorderStyle(name)
		require.NoError(t, err)
		require.Equal(t, want, LipglossBorder(style), name)
	}
}

func TestLipglossBorder_Custom(t *testing.T) {
	style, err := surface.CustomBorderStyle([]string{"1", "2", "3", "4", "5", "6", "7", ""})
	require.NoError(t, err)

	b := LipglossBorder(style)
	require.Equal(t, "1", b.TopLeft)
	require.Equal(t, "2", b.Top)
	require.Equal(t, "3", b.TopRight)
	require.Equal(t, "4", b.Right)
	require.Equal(t, "5", b.BottomRight)
	require.Equal(t, "6", b.Bottom)
	require.Equal(t, "7", b.BottomLeft)
	require.Equal(t, " ", b.Left)
}
