package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/compleet/internal/surface"
)

var shadowBorder = lipgloss.Border{
	Top:         " ",
	Bottom:      "▒",
	Left:        " ",
	Right:       "▒",
	TopLeft:     " ",
	TopRight:    " ",
	BottomLeft:  " ",
	BottomRight: "▒",
}

// LipglossBorder converts a border style into its Lip Gloss form. Custom
// characters are read clockwise from the top-left corner; empty entries
// become spaces so the frame keeps its size.
func LipglossBorder(style surface.BorderStyle) lipgloss.Border {
	if style.IsCustom() {
		c := style.Chars()
		for i := range c {
			if c[i] == "" {
				c[i] = " "
			}
		}
		return lipgloss.Border{
			TopLeft:     c[0],
			Top:         c[1],
			TopRight:    c[2],
			Right:       c[3],
			BottomRight: c[4],
			Bottom:      c[5],
			BottomLeft:  c[6],
			Left:        c[7],
		}
	}

	switch style.Name() {
	case surface.BorderDouble:
		return lipgloss.DoubleBorder()
	case surface.BorderRounded:
		return lipgloss.RoundedBorder()
	case surface.BorderSolid:
		return lipgloss.HiddenBorder()
	case surface.BorderShadow:
		return shadowBorder
	default:
		return lipgloss.NormalBorder()
	}
}
