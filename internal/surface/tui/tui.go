// Package tui is a Display Surface for Bubble Tea programs. Windows are kept
// in memory and composited over the program's view by Render.
package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/compleet/internal/surface"
	"github.com/zjrosen/compleet/internal/surface/memory"
	"github.com/zjrosen/compleet/internal/ui/overlay"
	"github.com/zjrosen/compleet/internal/ui/styles"
)

// Point is a zero-based screen cell.
type Point struct {
	Row int
	Col int
}

// Highlight group names read from the winhl option.
const (
	slotNormal     = "Normal"
	slotCursorLine = "CursorLine"
	slotBorder     = "FloatBorder"
)

// Surface renders floating windows in a terminal.
type Surface struct {
	*memory.Surface

	mu     sync.Mutex
	width  int
	height int
	// top is the first buffer line shown by each window.
	top map[surface.Window]int
}

var _ surface.Surface = (*Surface)(nil)

// New creates a surface for a viewport of width x height cells.
func New(width, height int) *Surface {
	return &Surface{
		Surface: memory.New(),
		width:   width,
		height:  height,
		top:     make(map[surface.Window]int),
	}
}

// SetSize updates the viewport size.
func (s *Surface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

// Size returns the viewport size.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Render draws every visible window over base. Windows anchored to the
// cursor are offset from cursor.
func (s *Surface) Render(base string, cursor Point) string {
	width, height := s.Size()

	out := base
	for _, w := range s.VisibleWindows() {
		x, y := w.Config.Col, w.Config.Row
		if w.Config.Relative == surface.RelativeCursor {
			x += cursor.Col
			y += cursor.Row
		}
		out = overlay.PlaceAt(width, height, x, y, s.renderWindow(w), out)
	}
	return out
}

// View renders a single window, border included. It returns "" for unknown
// or hidden windows.
func (s *Surface) View(win surface.Window) string {
	w, ok := s.Window(win)
	if !ok || w.Hidden {
		return ""
	}
	return s.renderWindow(w)
}

func (s *Surface) renderWindow(w memory.WindowState) string {
	lines := s.Lines(w.Content)
	marks := s.ContentMarks(w.Content)
	slots := parseWinHighlight(w.Options)

	normal := slotStyle(slots, slotNormal)
	selected := slotStyle(slots, slotCursorLine).Inherit(normal)
	cursorLine, _ := w.Option(surface.OptionCursorLine)
	showCursorLine, _ := cursorLine.(bool)

	cursorIdx := w.CursorRow - 1
	top := s.scroll(w.ID, cursorIdx, w.Config.Height, len(lines))

	rows := make([]string, w.Config.Height)
	for i := range rows {
		idx := top + i
		base := normal
		if showCursorLine && idx == cursorIdx {
			base = selected
		}
		var line string
		if idx < len(lines) {
			line = lines[idx]
		}
		rows[i] = renderLine(line, idx, marks, base, w.Config.Width)
	}
	body := strings.Join(rows, "\n")

	b, ok := w.Config.Border.(surface.Bordered)
	if !ok {
		return body
	}
	frame := slotStyle(slots, slotBorder)
	return lipgloss.NewStyle().
		Border(styles.LipglossBorder(b.Style)).
		BorderForeground(frame.GetForeground()).
		Render(body)
}

// scroll keeps the cursor line inside the window with no context lines
// around it and returns the first visible line.
func (s *Surface) scroll(win surface.Window, cursorIdx, height, lineCount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := s.top[win]
	if cursorIdx < top {
		top = cursorIdx
	}
	if cursorIdx >= top+height {
		top = cursorIdx - height + 1
	}
	top = min(top, max(lineCount-height, 0))
	top = max(top, 0)
	s.top[win] = top
	return top
}

// renderLine styles one buffer line, cut or padded to width cells.
func renderLine(line string, row int, marks []memory.Mark, base lipgloss.Style, width int) string {
	groups := byteGroups(line, row, marks)

	var b strings.Builder
	used := 0
	runStart, runGroup := 0, ""
	flush := func(end int) {
		if end > runStart {
			b.WriteString(groupStyle(runGroup, base).Render(line[runStart:end]))
		}
	}

	state := -1
	rest := line
	offset := 0
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		if g := groups[offset]; g != runGroup {
			flush(offset)
			runStart, runGroup = offset, g
		}
		offset += len(cluster)
		used += w
	}
	flush(offset)

	if used < width {
		b.WriteString(base.Render(strings.Repeat(" ", width-used)))
	}
	return ansi.Truncate(b.String(), width, "")
}

// byteGroups returns the highlight group of every byte of line. Later marks
// win, so marks must be ordered by ascending priority.
func byteGroups(line string, row int, marks []memory.Mark) []string {
	groups := make([]string, len(line)+1)
	for _, m := range marks {
		if row < m.Row || row > m.EndRow {
			continue
		}
		start, end := 0, len(line)
		if row == m.Row {
			start = m.Col
		}
		if row == m.EndRow {
			end = m.EndCol
		}
		for i := max(start, 0); i < min(end, len(line)); i++ {
			groups[i] = m.Group
		}
	}
	return groups
}

func groupStyle(group string, base lipgloss.Style) lipgloss.Style {
	if group == "" {
		return base
	}
	return styles.Group(group).Inherit(base)
}

// parseWinHighlight reads "Slot:Group,Slot:Group" from the winhl option.
func parseWinHighlight(options map[string]any) map[string]string {
	slots := make(map[string]string)
	value, _ := options[surface.OptionWinHighlight].(string)
	for _, pair := range strings.Split(value, ",") {
		slot, group, ok := strings.Cut(pair, ":")
		if ok && slot != "" {
			slots[slot] = group
		}
	}
	return slots
}

func slotStyle(slots map[string]string, slot string) lipgloss.Style {
	group, ok := slots[slot]
	if !ok || group == "None" {
		return lipgloss.NewStyle()
	}
	return styles.Group(group)
}
