// Package overlay composites floating content, such as the completion menu,
// on top of a rendered view without clearing it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the center of the viewport.
	Center Position = iota
	// Top places the overlay at the top center of the viewport.
	Top
	// Bottom places the overlay at the bottom center of the viewport.
	Bottom
	// At places the overlay's top-left corner at (X, Y).
	At
)

// Config controls overlay rendering behavior.
type Config struct {
	// Width is the total viewport width.
	Width int
	// Height is the total viewport height.
	Height int
	// Position specifies where to place the overlay.
	Position Position
	// PadY adds vertical padding from edges (for Top/Bottom positions).
	PadY int
	// X and Y locate the overlay for the At position.
	X int
	Y int
}

// PlaceAt renders fg with its top-left corner at cell (x, y) of bg.
// Cells that fall outside the viewport are clipped.
func PlaceAt(width, height, x, y int, fg, bg string) string {
	return Place(Config{Width: width, Height: height, Position: At, X: x, Y: y}, fg, bg)
}

// Place renders foreground content on top of background.
// Uses ANSI-aware string manipulation to preserve styling in both
// the foreground and background content.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	// Pad background to full height
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := calculatePosition(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY < 0 {
			continue
		}
		if bgY >= len(bgLines) {
			break
		}

		x := startX
		if x < 0 {
			// Drop the cells left of the viewport.
			fgLine = ansi.TruncateLeft(fgLine, -x, "")
			x = 0
		}
		if cfg.Width > 0 {
			if x >= cfg.Width {
				continue
			}
			fgLine = ansi.Truncate(fgLine, cfg.Width-x, "")
		}

		bgLines[bgY] = splice(bgLines[bgY], fgLine, x)
	}

	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of bgLine starting at x with fgLine.
func splice(bgLine, fgLine string, x int) string {
	// Get left portion of background (ANSI-aware truncation)
	leftPart := ansi.Truncate(bgLine, x, "")

	// Pad left part if background is shorter than x
	if leftWidth := ansi.StringWidth(leftPart); leftWidth < x {
		leftPart += strings.Repeat(" ", x-leftWidth)
	}

	// Get right portion of background after the overlay
	endX := x + ansi.StringWidth(fgLine)
	var rightPart string
	if endX < ansi.StringWidth(bgLine) {
		// TruncateLeft removes chars from the left, keeping the right
		rightPart = ansi.TruncateLeft(bgLine, endX, "")
	}

	return leftPart + fgLine + rightPart
}

// calculatePosition determines the x,y starting coordinates for the overlay.
func calculatePosition(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case At:
		return cfg.X, cfg.Y
	case Top:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.PadY
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	default: // Center
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}

	// Ensure non-negative
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
