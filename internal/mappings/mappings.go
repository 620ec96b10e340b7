// Package mappings reacts to editor events by driving the completion menu.
// Each handler corresponds to a key mapping or autocommand of the host.
package mappings

import (
	"context"

	"github.com/zjrosen/compleet/internal/completion"
	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/ui/menu"
)

// State is the per-session state shared by the handlers.
type State struct {
	Menu        *menu.Menu
	Completions []completion.Item
	Settings    menu.Settings
}

// NewState returns the state for a session.
func NewState(m *menu.Menu, settings menu.Settings) *State {
	return &State{Menu: m, Settings: settings}
}

// position computes where the menu should go for the current completions.
func (st *State) position(cursor menu.Cursor, viewport menu.Viewport) (menu.Position, bool) {
	return menu.Compute(cursor, viewport, len(st.Completions), completion.MaxWidth(st.Completions), st.Settings)
}

// ShowCompletions opens the menu with the current completions. It does
// nothing when the menu is already open, when there is nothing to show or
// when the menu does not fit.
func ShowCompletions(ctx context.Context, st *State, cursor menu.Cursor, viewport menu.Viewport) error {
	if st.Menu.IsVisible() || len(st.Completions) == 0 {
		return nil
	}

	pos, ok := st.position(cursor, viewport)
	if !ok {
		log.Debug(log.CatMenu, "No room for completions", "row", cursor.Row, "col", cursor.Col,
			"width", viewport.Width, "height", viewport.Height)
		return nil
	}

	if err := st.Menu.Spawn(ctx, pos, st.Settings.Border); err != nil {
		return err
	}
	return st.Menu.Fill(ctx, st.Completions)
}

// UpdateCompletions replaces the completions. An open menu follows them: it
// closes when they run out or stop fitting, and otherwise moves in place.
// A selection past the new end is cleared.
func UpdateCompletions(ctx context.Context, st *State, items []completion.Item, cursor menu.Cursor, viewport menu.Viewport) error {
	st.Completions = items
	if !st.Menu.IsVisible() {
		return nil
	}
	if len(items) == 0 {
		return st.Menu.Close(ctx)
	}

	pos, ok := st.position(cursor, viewport)
	if !ok {
		return st.Menu.Close(ctx)
	}
	if err := st.Menu.Shift(ctx, pos); err != nil {
		return err
	}
	if err := st.Menu.Fill(ctx, items); err != nil {
		return err
	}
	if idx, ok := st.Menu.SelectedIndex(); ok && idx >= len(items) {
		return st.Menu.Deselect(ctx)
	}
	return nil
}

// SelectNextCompletion moves the selection down, wrapping from the last item
// to no selection and from no selection to the first item.
func SelectNextCompletion(ctx context.Context, st *State) error {
	if !st.Menu.IsVisible() || len(st.Completions) == 0 {
		return nil
	}

	idx, ok := st.Menu.SelectedIndex()
	switch {
	case !ok:
		return st.Menu.Select(ctx, 0)
	case idx+1 >= len(st.Completions):
		return st.Menu.Deselect(ctx)
	default:
		return st.Menu.Select(ctx, idx+1)
	}
}

// SelectPrevCompletion moves the selection up, wrapping from the first item
// to no selection and from no selection to the last item.
func SelectPrevCompletion(ctx context.Context, st *State) error {
	if !st.Menu.IsVisible() || len(st.Completions) == 0 {
		return nil
	}

	idx, ok := st.Menu.SelectedIndex()
	switch {
	case !ok:
		return st.Menu.Select(ctx, len(st.Completions)-1)
	case idx == 0:
		return st.Menu.Deselect(ctx)
	default:
		return st.Menu.Select(ctx, idx-1)
	}
}

// CloseCompletions closes the menu.
func CloseCompletions(ctx context.Context, st *State) error {
	return st.Menu.Close(ctx)
}

// SelectedCompletion returns the selected item, if any.
func SelectedCompletion(st *State) (completion.Item, bool) {
	idx, ok := st.Menu.SelectedIndex()
	if !ok || idx >= len(st.Completions) {
		return completion.Item{}, false
	}
	return st.Completions[idx], true
}
