// Package styles contains Lip Gloss style definitions.
package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/compleet/internal/ui/menu"
)

// Default palette for the menu and notifications.
var defaultColors = map[ColorToken]string{
	TokenMenuNormal:   "#C0CAF5",
	TokenMenuSelected: "#7AA2F7",
	TokenMenuBorder:   "#565F89",
	TokenMenuMatching: "#FF9E64",
	TokenToastSuccess: "#9ECE6A",
	TokenToastError:   "#F7768E",
	TokenToastInfo:    "#7DCFFF",
}

// Highlight group names understood by Group.
const (
	GroupMenu          = menu.GroupMenu
	GroupMenuSelected  = menu.GroupSelected
	GroupMenuBorder    = menu.GroupBorder
	GroupMatchingChars = menu.GroupMatchingChars
)

var (
	mu      sync.RWMutex
	groups  map[string]lipgloss.Style
	palette map[ColorToken]string
)

func init() {
	rebuildStyles(defaultColors)
}

func rebuildStyles(colors map[ColorToken]string) {
	color := func(token ColorToken) lipgloss.Color {
		return lipgloss.Color(colors[token])
	}

	built := map[string]lipgloss.Style{
		GroupMenu:          lipgloss.NewStyle().Foreground(color(TokenMenuNormal)),
		GroupMenuSelected:  lipgloss.NewStyle().Reverse(true).Foreground(color(TokenMenuSelected)),
		GroupMenuBorder:    lipgloss.NewStyle().Foreground(color(TokenMenuBorder)),
		GroupMatchingChars: lipgloss.NewStyle().Bold(true).Foreground(color(TokenMenuMatching)),
	}

	mu.Lock()
	groups = built
	palette = colors
	mu.Unlock()
}

// Color returns the active color for a token.
func Color(token ColorToken) lipgloss.Color {
	mu.RLock()
	defer mu.RUnlock()
	return lipgloss.Color(palette[token])
}

// Group returns the style registered for a highlight group. Unknown groups
// render unstyled.
func Group(name string) lipgloss.Style {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := groups[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
