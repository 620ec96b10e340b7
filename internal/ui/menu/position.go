package menu

import "github.com/zjrosen/compleet/internal/surface"

// Cursor is the zero-based screen cell of the text cursor inside the
// viewport.
type Cursor struct {
	Row int
	Col int
}

// Viewport is the size of the editing area in cells.
type Viewport struct {
	Width  int
	Height int
}

// Settings bounds the size and look of the menu.
type Settings struct {
	MaxWidth  int
	MaxHeight int
	Border    surface.Border
}

// Position is the geometry of the menu window. Row and Col are offsets from
// the cursor cell and locate the window's outer corner (the border, when
// there is one). Width and Height size the content area.
type Position struct {
	Row    int
	Col    int
	Width  int
	Height int
}

// Compute places a menu of count items whose widest label is maxLabelWidth
// cells. The menu goes below the cursor when it fits, above when only that
// side fits, and otherwise shrinks to the larger side, below winning ties.
// It returns false when there is nothing to show or no room for a single row.
func Compute(cursor Cursor, viewport Viewport, count, maxLabelWidth int, settings Settings) (Position, bool) {
	if count <= 0 || viewport.Width < 1 || viewport.Height < 1 {
		return Position{}, false
	}

	frame := 2 * surface.Thickness(settings.Border)

	height := min(settings.MaxHeight, count)
	if height < 1 {
		return Position{}, false
	}

	cursorRow := clamp(cursor.Row, 0, viewport.Height-1)
	below := viewport.Height - cursorRow - 1
	above := cursorRow

	var row int
	switch {
	case below >= height+frame:
		row = 1
	case above >= height+frame:
		row = -(height + frame)
	default:
		if below >= above {
			height = below - frame
			row = 1
		} else {
			height = above - frame
			row = -above
		}
		if height < 1 {
			return Position{}, false
		}
	}

	width := max(min(settings.MaxWidth, maxLabelWidth), 1)
	cursorCol := clamp(cursor.Col, 0, viewport.Width-1)

	var col int
	if width+frame > viewport.Width {
		width = max(viewport.Width-frame, 1)
		col = -cursorCol
	} else if overflow := cursorCol + width + frame - viewport.Width; overflow > 0 {
		col = -overflow
	}

	return Position{Row: row, Col: col, Width: width, Height: height}, true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
