// Package menu implements the completion popup: where it goes, what it shows
// and how it moves between the closed and open states.
package menu

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/compleet/internal/completion"
	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/surface"
)

const (
	// NamespaceName scopes the marks of matched characters.
	NamespaceName = "compleet_matched_chars"

	// WinHighlight maps the window's highlight groups to the menu groups.
	WinHighlight = "CursorLine:CompleetMenuSelected,FloatBorder:CompleetMenuBorder,Normal:CompleetMenu,Search:None"

	// MarkPriority is high enough to win over the default text highlight.
	MarkPriority = 10000
)

// Highlight groups used by the menu.
const (
	GroupMenu          = "CompleetMenu"
	GroupSelected      = "CompleetMenuSelected"
	GroupBorder        = "CompleetMenuBorder"
	GroupMatchingChars = "CompleetMenuMatchingChars"
)

// Option configures a Menu.
type Option func(*Menu)

// WithNamespace overrides the highlight namespace name.
func WithNamespace(name string) Option {
	return func(m *Menu) {
		m.nsName = name
	}
}

// WithMarkPriority overrides the priority of matched character marks.
func WithMarkPriority(priority int) Option {
	return func(m *Menu) {
		m.priority = priority
	}
}

// Menu is the completion popup of one editing session. It owns a content
// store and a highlight namespace for its whole life and a window while it
// is open. A Menu is not safe for concurrent use.
//
// The window is present exactly when the menu is visible, a selection and a
// width exist only while the window does, and state is committed only after
// the host call behind it succeeds.
type Menu struct {
	id       string
	surface  surface.Surface
	nsName   string
	priority int

	content surface.Content
	ns      surface.Namespace

	window    surface.Window
	hasWindow bool

	width    int
	selected int
	// hasSelection is false when no item is selected.
	hasSelection bool
}

// New creates the menu's content store and highlight namespace.
func New(ctx context.Context, s surface.Surface, opts ...Option) (*Menu, error) {
	m := &Menu{
		id:       uuid.NewString(),
		surface:  s,
		nsName:   NamespaceName,
		priority: MarkPriority,
	}
	for _, opt := range opts {
		opt(m)
	}

	content, err := s.CreateContentStore(ctx, false, true)
	if err != nil {
		log.ErrorErr(log.CatMenu, "Failed to create content store", err, log.KeyMenu, m.id)
		return nil, err
	}
	ns, err := s.CreateHighlightNamespace(ctx, m.nsName)
	if err != nil {
		log.ErrorErr(log.CatMenu, "Failed to create highlight namespace", err, log.KeyMenu, m.id)
		return nil, err
	}
	m.content = content
	m.ns = ns

	log.Debug(log.CatMenu, "Menu created", log.KeyMenu, m.id, "content", content, "namespace", ns)
	return m, nil
}

// ID identifies the menu in logs and traces.
func (m *Menu) ID() string { return m.id }

// Content returns the menu's content store.
func (m *Menu) Content() surface.Content { return m.content }

// Namespace returns the namespace of the matched character marks.
func (m *Menu) Namespace() surface.Namespace { return m.ns }

// IsVisible reports whether the menu window is open.
func (m *Menu) IsVisible() bool { return m.hasWindow }

// IsItemSelected reports whether an item is selected.
func (m *Menu) IsItemSelected() bool { return m.hasSelection }

// SelectedIndex returns the selected item, if any.
func (m *Menu) SelectedIndex() (int, bool) {
	return m.selected, m.hasSelection
}

// Width returns the content width while the menu is open.
func (m *Menu) Width() (int, bool) {
	return m.width, m.hasWindow
}

// Window returns the menu window while the menu is open.
func (m *Menu) Window() (surface.Window, bool) {
	return m.window, m.hasWindow
}

// Spawn opens the menu window at pos. It panics if the menu is already open.
func (m *Menu) Spawn(ctx context.Context, pos Position, border surface.Border) error {
	if m.hasWindow {
		panic(fmt.Sprintf("menu %s: spawn while open (window %d)", m.id, m.window))
	}
	if border == nil {
		border = surface.NoBorder{}
	}

	win, err := m.surface.OpenWindow(ctx, m.content, false, surface.WindowConfig{
		Relative:  surface.RelativeCursor,
		Row:       pos.Row,
		Col:       pos.Col,
		Width:     pos.Width,
		Height:    pos.Height,
		Focusable: false,
		Style:     surface.StyleMinimal,
		NoAutocmd: true,
		Border:    border,
	})
	if err != nil {
		log.ErrorErr(log.CatMenu, "Failed to open menu window", err, log.KeyMenu, m.id)
		return err
	}

	// The window exists from here on even if an option fails, so it is
	// committed before the options are applied.
	m.window = win
	m.hasWindow = true
	m.width = pos.Width

	if err := m.surface.SetWindowOption(ctx, win, surface.OptionWinHighlight, WinHighlight); err != nil {
		log.ErrorErr(log.CatMenu, "Failed to set winhl", err, log.KeyMenu, m.id, "window", win)
		return err
	}
	if err := m.surface.SetWindowOption(ctx, win, surface.OptionScrollOff, 0); err != nil {
		log.ErrorErr(log.CatMenu, "Failed to set scrolloff", err, log.KeyMenu, m.id, "window", win)
		return err
	}

	log.Debug(log.CatMenu, "Menu spawned", log.KeyMenu, m.id, "window", win,
		"row", pos.Row, "col", pos.Col, "width", pos.Width, "height", pos.Height,
		"border", surface.HasBorder(border))
	return nil
}

// Fill replaces the menu content with one line per item and highlights the
// matched characters. It works whether or not the menu is open.
func (m *Menu) Fill(ctx context.Context, items []completion.Item) error {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = item.Label
	}

	if err := m.surface.ReplaceLines(ctx, m.content, 0, -1, lines); err != nil {
		log.ErrorErr(log.CatMenu, "Failed to replace menu lines", err, log.KeyMenu, m.id)
		return err
	}
	if err := m.surface.ClearNamespace(ctx, m.content, m.ns, 0, -1); err != nil {
		log.ErrorErr(log.CatMenu, "Failed to clear matched chars", err, log.KeyMenu, m.id)
		return err
	}

	reqs := MarkRequests(items)
	for _, req := range reqs {
		err := m.surface.SetHighlightMark(ctx, m.content, m.ns, req.Row, req.StartCol, surface.MarkOptions{
			ID:       req.ID,
			EndRow:   req.Row,
			EndCol:   req.EndCol,
			Group:    req.Group,
			Priority: m.priority,
		})
		if err != nil {
			log.ErrorErr(log.CatMenu, "Failed to set highlight mark", err, log.KeyMenu, m.id, "mark", req.ID)
			return err
		}
	}

	log.Debug(log.CatMenu, "Menu filled", log.KeyMenu, m.id, "items", len(items), "marks", len(reqs))
	return nil
}

// Shift moves and resizes the open window in place. It panics if the menu
// is closed.
func (m *Menu) Shift(ctx context.Context, pos Position) error {
	m.mustBeOpen("shift")

	err := m.surface.SetWindowConfig(ctx, m.window, surface.WindowConfig{
		Relative: surface.RelativeCursor,
		Row:      pos.Row,
		Col:      pos.Col,
		Width:    pos.Width,
		Height:   pos.Height,
	})
	if err != nil {
		log.ErrorErr(log.CatMenu, "Failed to shift menu window", err, log.KeyMenu, m.id, "window", m.window)
		return err
	}
	m.width = pos.Width

	log.Debug(log.CatMenu, "Menu shifted", log.KeyMenu, m.id,
		"row", pos.Row, "col", pos.Col, "width", pos.Width, "height", pos.Height)
	return nil
}

// Select highlights item i. It panics if the menu is closed.
func (m *Menu) Select(ctx context.Context, i int) error {
	m.mustBeOpen("select")

	if err := m.surface.SetWindowCursor(ctx, m.window, i+1, 0); err != nil {
		log.ErrorErr(log.CatMenu, "Failed to move menu cursor", err, log.KeyMenu, m.id, "index", i)
		return err
	}
	if !m.hasSelection {
		if err := m.surface.SetWindowOption(ctx, m.window, surface.OptionCursorLine, true); err != nil {
			log.ErrorErr(log.CatMenu, "Failed to enable cursorline", err, log.KeyMenu, m.id)
			return err
		}
	}
	m.selected = i
	m.hasSelection = true

	log.Debug(log.CatMenu, "Menu item selected", log.KeyMenu, m.id, "index", i)
	return nil
}

// Deselect clears the selection. It panics if the menu is closed.
func (m *Menu) Deselect(ctx context.Context) error {
	m.mustBeOpen("deselect")

	if err := m.surface.SetWindowOption(ctx, m.window, surface.OptionCursorLine, false); err != nil {
		log.ErrorErr(log.CatMenu, "Failed to disable cursorline", err, log.KeyMenu, m.id)
		return err
	}
	m.selected = 0
	m.hasSelection = false

	log.Debug(log.CatMenu, "Menu selection cleared", log.KeyMenu, m.id)
	return nil
}

// Close hides the menu window. Closing a closed menu is a no-op apart from
// clearing the selection and width.
func (m *Menu) Close(ctx context.Context) error {
	if m.hasWindow {
		// A hidden window keeps its cursor row; reset it so the next
		// window does not start on a stale line.
		if err := m.surface.SetWindowCursor(ctx, m.window, 1, 0); err != nil {
			log.ErrorErr(log.CatMenu, "Failed to reset menu cursor", err, log.KeyMenu, m.id)
			return err
		}
		// cursorline stays on until the window is hidden, so a selection
		// now sits on the first row.
		m.selected = 0
		if err := m.surface.HideWindow(ctx, m.window); err != nil {
			log.ErrorErr(log.CatMenu, "Failed to hide menu window", err, log.KeyMenu, m.id)
			return err
		}
		log.Debug(log.CatMenu, "Menu closed", log.KeyMenu, m.id, "window", m.window)
		m.window = 0
		m.hasWindow = false
	}

	m.selected = 0
	m.hasSelection = false
	m.width = 0
	return nil
}

func (m *Menu) mustBeOpen(op string) {
	if !m.hasWindow {
		panic(fmt.Sprintf("menu %s: %s while closed", m.id, op))
	}
}
