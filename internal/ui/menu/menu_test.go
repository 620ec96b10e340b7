package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/compleet/internal/completion"
	"github.com/zjrosen/compleet/internal/surface"
	"github.com/zjrosen/compleet/internal/surface/memory"
)

var errBoom = errors.New("boom")

func newMenu(t *testing.T) (*Menu, *memory.Surface) {
	t.Helper()
	s := memory.New()
	m, err := New(context.Background(), s)
	require.NoError(t, err)
	return m, s
}

func threeItems() []completion.Item {
	return []completion.Item{
		completion.NewItem("foo", completion.Span{Start: 0, End: 2, Group: "Match"}),
		completion.NewItem("bar"),
		completion.NewItem("baz"),
	}
}

func requireClosed(t *testing.T, m *Menu) {
	t.Helper()
	require.False(t, m.IsVisible())
	require.False(t, m.IsItemSelected())
	_, ok := m.Window()
	require.False(t, ok)
	_, ok = m.Width()
	require.False(t, ok)
	_, ok = m.SelectedIndex()
	require.False(t, ok)
}

func TestNew(t *testing.T) {
	s := memory.New()
	m, err := New(context.Background(), s)
	require.NoError(t, err)

	require.NotEmpty(t, m.ID())
	requireClosed(t, m)
	require.Equal(t, 1, s.CallCount(surface.OpCreateContentStore))

	calls := s.Calls()
	require.Equal(t, []any{false, true}, calls[0].Args)
	require.Equal(t, []any{NamespaceName}, calls[1].Args)
}

func TestNew_WithNamespace(t *testing.T) {
	s := memory.New()
	m, err := New(context.Background(), s, WithNamespace("custom"), WithMarkPriority(5))
	require.NoError(t, err)

	require.Equal(t, []any{"custom"}, s.Calls()[1].Args)

	require.NoError(t, m.Fill(context.Background(), threeItems()))
	require.Equal(t, 5, s.Marks(m.Content(), m.Namespace())[0].Priority)
}

func TestNew_Errors(t *testing.T) {
	for _, op := range []string{surface.OpCreateContentStore, surface.OpCreateHighlightNamespace} {
		t.Run(op, func(t *testing.T) {
			s := memory.New()
			s.FailOn(op, errBoom)

			m, err := New(context.Background(), s)
			require.Nil(t, m)
			require.ErrorIs(t, err, errBoom)

			var hostErr *surface.HostAPIError
			require.ErrorAs(t, err, &hostErr)
			require.Equal(t, op, hostErr.Op)
		})
	}
}

func TestSpawn(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()

	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Col: -2, Width: 10, Height: 3}, surface.NoBorder{}))

	require.True(t, m.IsVisible())
	width, ok := m.Width()
	require.True(t, ok)
	require.Equal(t, 10, width)
	require.False(t, m.IsItemSelected())

	win, ok := m.Window()
	require.True(t, ok)
	state, ok := s.Window(win)
	require.True(t, ok)
	require.Equal(t, m.Content(), state.Content)
	require.Equal(t, surface.WindowConfig{
		Relative:  surface.RelativeCursor,
		Row:       1,
		Col:       -2,
		Width:     10,
		Height:    3,
		Focusable: false,
		Style:     surface.StyleMinimal,
		NoAutocmd: true,
		Border:    surface.NoBorder{},
	}, state.Config)

	winhl, _ := state.Option(surface.OptionWinHighlight)
	require.Equal(t, WinHighlight, winhl)
	scrolloff, _ := state.Option(surface.OptionScrollOff)
	require.Equal(t, 0, scrolloff)

	open := s.Calls()[2]
	require.Equal(t, surface.OpOpenWindow, open.Op)
	require.Equal(t, false, open.Args[1])
}

func TestSpawn_Border(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	style, err := surface.NamedBorderStyle(surface.BorderRounded)
	require.NoError(t, err)

	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 4, Height: 1}, surface.Bordered{Style: style}))

	win, _ := m.Window()
	state, _ := s.Window(win)
	require.Equal(t, surface.Bordered{Style: style}, state.Config.Border)
}

func TestSpawn_NilBorder(t *testing.T) {
	m, s := newMenu(t)

	require.NoError(t, m.Spawn(context.Background(), Position{Row: 1, Width: 4, Height: 1}, nil))

	win, _ := m.Window()
	state, _ := s.Window(win)
	require.Equal(t, surface.NoBorder{}, state.Config.Border)
}

func TestSpawn_WhileOpenPanics(t *testing.T) {
	m, _ := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 4, Height: 1}, surface.NoBorder{}))

	require.Panics(t, func() {
		_ = m.Spawn(ctx, Position{Row: 1, Width: 4, Height: 1}, surface.NoBorder{})
	})
}

func TestSpawn_OpenFailureCommitsNothing(t *testing.T) {
	m, s := newMenu(t)
	s.FailOn(surface.OpOpenWindow, errBoom)

	err := m.Spawn(context.Background(), Position{Row: 1, Width: 4, Height: 1}, surface.NoBorder{})
	require.ErrorIs(t, err, errBoom)
	requireClosed(t, m)
	require.Empty(t, s.VisibleWindows())
}

func TestSpawn_OptionFailureKeepsWindow(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	s.FailNext(surface.OpSetWindowOption, errBoom)

	err := m.Spawn(ctx, Position{Row: 1, Width: 4, Height: 1}, surface.NoBorder{})
	require.ErrorIs(t, err, errBoom)

	require.True(t, m.IsVisible())
	win, _ := m.Window()
	_, ok := s.Window(win)
	require.True(t, ok)

	require.NoError(t, m.Close(ctx))
	requireClosed(t, m)
	require.Empty(t, s.VisibleWindows())
}

func TestFill(t *testing.T) {
	m, s := newMenu(t)

	require.NoError(t, m.Fill(context.Background(), threeItems()))

	require.Equal(t, []string{"foo", "bar", "baz"}, s.Lines(m.Content()))
	require.Equal(t, []memory.Mark{{
		Content:   m.Content(),
		Namespace: m.Namespace(),
		ID:        1,
		Row:       0,
		Col:       0,
		EndRow:    0,
		EndCol:    2,
		Group:     "Match",
		Priority:  MarkPriority,
	}}, s.Marks(m.Content(), m.Namespace()))
	requireClosed(t, m)
}

func TestFill_ClearsStaleMarks(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()

	many := []completion.Item{
		completion.NewItem("aa", completion.Span{Start: 0, End: 1, Group: "G"}),
		completion.NewItem("ab", completion.Span{Start: 0, End: 1, Group: "G"}),
		completion.NewItem("ac", completion.Span{Start: 0, End: 1, Group: "G"}),
	}
	require.NoError(t, m.Fill(ctx, many))
	require.Len(t, s.Marks(m.Content(), m.Namespace()), 3)

	require.NoError(t, m.Fill(ctx, many[:1]))
	marks := s.Marks(m.Content(), m.Namespace())
	require.Len(t, marks, 1)
	require.Equal(t, 0, marks[0].Row)
	require.Equal(t, []string{"aa"}, s.Lines(m.Content()))
}

func TestFill_Empty(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))

	require.NoError(t, m.Fill(ctx, nil))
	require.Equal(t, []string{""}, s.Lines(m.Content()))
	require.Empty(t, s.Marks(m.Content(), m.Namespace()))
}

func TestFill_WhileOpen(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 3, Height: 3}, surface.NoBorder{}))
	win, _ := m.Window()

	require.NoError(t, m.Fill(ctx, threeItems()))

	got, _ := m.Window()
	require.Equal(t, win, got)
	require.Equal(t, []string{"foo", "bar", "baz"}, s.Lines(m.Content()))
}

func TestFill_MarkFailure(t *testing.T) {
	m, s := newMenu(t)
	s.FailOn(surface.OpSetHighlightMark, errBoom)

	err := m.Fill(context.Background(), threeItems())
	require.ErrorIs(t, err, errBoom)
	require.True(t, surface.IsHostError(err))
}

func TestShift(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	before, _ := m.Window()

	require.NoError(t, m.Shift(ctx, Position{Row: -2, Col: -1, Width: 6, Height: 2}))

	after, _ := m.Window()
	require.Equal(t, before, after)
	width, _ := m.Width()
	require.Equal(t, 6, width)
	require.Equal(t, 1, s.CallCount(surface.OpOpenWindow))

	state, _ := s.Window(after)
	require.Equal(t, -2, state.Config.Row)
	require.Equal(t, -1, state.Config.Col)
	require.Equal(t, 2, state.Config.Height)
}

func TestShift_KeepsSelection(t *testing.T) {
	m, _ := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	require.NoError(t, m.Select(ctx, 2))

	require.NoError(t, m.Shift(ctx, Position{Row: 1, Width: 5, Height: 3}))

	idx, ok := m.SelectedIndex()
	require.True(t, ok)
	require.Equal(t, 2, idx)
}

func TestShift_FailureKeepsWidth(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	s.FailOn(surface.OpSetWindowConfig, errBoom)

	require.ErrorIs(t, m.Shift(ctx, Position{Row: 1, Width: 4, Height: 3}), errBoom)

	width, _ := m.Width()
	require.Equal(t, 10, width)
}

func TestShift_WhileClosedPanics(t *testing.T) {
	m, _ := newMenu(t)
	require.Panics(t, func() {
		_ = m.Shift(context.Background(), Position{Row: 1, Width: 4, Height: 1})
	})
}

func TestSelect(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	win, _ := m.Window()

	require.NoError(t, m.Select(ctx, 1))

	idx, ok := m.SelectedIndex()
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.True(t, m.IsItemSelected())

	state, _ := s.Window(win)
	require.Equal(t, 2, state.CursorRow)
	cursorLine, _ := state.Option(surface.OptionCursorLine)
	require.Equal(t, true, cursorLine)

	got, _ := m.Window()
	require.Equal(t, win, got)
	width, _ := m.Width()
	require.Equal(t, 10, width)
}

func TestSelect_EnablesCursorLineOnce(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	s.ResetCalls()

	require.NoError(t, m.Select(ctx, 0))
	require.NoError(t, m.Select(ctx, 1))
	require.NoError(t, m.Select(ctx, 2))

	require.Equal(t, 1, s.CallCount(surface.OpSetWindowOption))
	require.Equal(t, 3, s.CallCount(surface.OpSetWindowCursor))
}

func TestDeselect(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	require.NoError(t, m.Select(ctx, 1))

	require.NoError(t, m.Deselect(ctx))

	require.False(t, m.IsItemSelected())
	win, _ := m.Window()
	state, _ := s.Window(win)
	cursorLine, _ := state.Option(surface.OptionCursorLine)
	require.Equal(t, false, cursorLine)

	s.ResetCalls()
	require.NoError(t, m.Select(ctx, 0))
	require.Equal(t, 1, s.CallCount(surface.OpSetWindowOption))
}

func TestSelect_FailureKeepsSelection(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	require.NoError(t, m.Select(ctx, 0))

	s.FailNext(surface.OpSetWindowCursor, errBoom)
	require.ErrorIs(t, m.Select(ctx, 2), errBoom)
	idx, _ := m.SelectedIndex()
	require.Equal(t, 0, idx)

	s.FailNext(surface.OpSetWindowOption, errBoom)
	require.ErrorIs(t, m.Deselect(ctx), errBoom)
	require.True(t, m.IsItemSelected())
}

func TestSelect_WhileClosedPanics(t *testing.T) {
	m, _ := newMenu(t)
	require.Panics(t, func() { _ = m.Select(context.Background(), 0) })
	require.Panics(t, func() { _ = m.Deselect(context.Background()) })
}

func TestClose(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	require.NoError(t, m.Select(ctx, 2))
	win, _ := m.Window()

	require.NoError(t, m.Close(ctx))

	requireClosed(t, m)
	state, ok := s.Window(win)
	require.True(t, ok)
	require.True(t, state.Hidden)
	require.Equal(t, 1, state.CursorRow)
	require.Equal(t, 0, state.CursorCol)

	calls := s.Calls()
	require.Equal(t, surface.OpHideWindow, calls[len(calls)-1].Op)
	require.Equal(t, surface.OpSetWindowCursor, calls[len(calls)-2].Op)
	require.Equal(t, []any{win, 1, 0}, calls[len(calls)-2].Args)
}

func TestClose_Idempotent(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()

	require.NoError(t, m.Close(ctx))
	requireClosed(t, m)

	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	require.NoError(t, m.Close(ctx))
	s.ResetCalls()
	require.NoError(t, m.Close(ctx))
	requireClosed(t, m)
	require.Empty(t, s.Calls())
}

func TestClose_HideFailureKeepsWindow(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	s.FailNext(surface.OpHideWindow, errBoom)

	require.ErrorIs(t, m.Close(ctx), errBoom)
	require.True(t, m.IsVisible())
	_, ok := m.Width()
	require.True(t, ok)

	require.NoError(t, m.Close(ctx))
	requireClosed(t, m)
}

func TestClose_HideFailureKeepsSelectionOnFirstRow(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	require.NoError(t, m.Select(ctx, 2))
	s.FailNext(surface.OpHideWindow, errBoom)

	require.ErrorIs(t, m.Close(ctx), errBoom)
	require.True(t, m.IsVisible())
	require.True(t, m.IsItemSelected(), "cursorline is still on")
	idx, ok := m.SelectedIndex()
	require.True(t, ok)
	require.Equal(t, 0, idx)

	win, _ := m.Window()
	state, ok := s.Window(win)
	require.True(t, ok)
	require.False(t, state.Hidden)
	require.Equal(t, true, state.Options[surface.OptionCursorLine])
	require.Equal(t, 1, state.CursorRow)

	require.NoError(t, m.Close(ctx))
	requireClosed(t, m)
}

func TestRespawnAfterClose(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	first, _ := m.Window()
	require.NoError(t, m.Close(ctx))

	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 8, Height: 3}, surface.NoBorder{}))
	second, _ := m.Window()

	require.NotEqual(t, first, second)
	require.Len(t, s.VisibleWindows(), 1)
	state, _ := s.Window(second)
	require.Equal(t, m.Content(), state.Content)
}

func TestEndToEnd(t *testing.T) {
	m, s := newMenu(t)
	ctx := context.Background()

	require.NoError(t, m.Fill(ctx, threeItems()))
	require.Equal(t, "foo", s.Lines(m.Content())[0])
	marks := s.Marks(m.Content(), m.Namespace())
	require.Len(t, marks, 1)
	require.Equal(t, 0, marks[0].Row)
	require.Equal(t, 0, marks[0].Col)
	require.Equal(t, 2, marks[0].EndCol)
	require.Equal(t, "Match", marks[0].Group)

	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Col: 0, Width: 10, Height: 3}, surface.NoBorder{}))
	require.True(t, m.IsVisible())
	width, _ := m.Width()
	require.Equal(t, 10, width)
	win, _ := m.Window()

	require.NoError(t, m.Select(ctx, 1))
	state, _ := s.Window(win)
	require.Equal(t, 2, state.CursorRow)
	cursorLine, _ := state.Option(surface.OptionCursorLine)
	require.Equal(t, true, cursorLine)

	require.NoError(t, m.Close(ctx))
	state, _ = s.Window(win)
	require.Equal(t, 1, state.CursorRow)
	require.True(t, state.Hidden)
	requireClosed(t, m)
}

// TestMenu_Invariants drives the menu with random operations, some of which
// fail, and checks that its state always agrees with the surface.
func TestMenu_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := memory.New()
		ctx := context.Background()
		m, err := New(ctx, s)
		if err != nil {
			rt.Fatalf("new: %v", err)
		}
		items := threeItems()
		if err := m.Fill(ctx, items); err != nil {
			rt.Fatalf("fill: %v", err)
		}

		ops := []string{"spawn", "shift", "select", "deselect", "close", "fill"}
		failable := []string{"", surface.OpOpenWindow, surface.OpSetWindowConfig, surface.OpSetWindowCursor, surface.OpSetWindowOption, surface.OpHideWindow}

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			op := rapid.SampledFrom(ops).Draw(rt, "op")
			if fail := rapid.SampledFrom(failable).Draw(rt, "fail"); fail != "" {
				s.FailNext(fail, errBoom)
			}
			pos := Position{
				Row:    1,
				Width:  rapid.IntRange(1, 20).Draw(rt, "width"),
				Height: rapid.IntRange(1, 3).Draw(rt, "height"),
			}

			switch op {
			case "spawn":
				if !m.IsVisible() {
					_ = m.Spawn(ctx, pos, surface.NoBorder{})
				}
			case "shift":
				if m.IsVisible() {
					_ = m.Shift(ctx, pos)
				}
			case "select":
				if m.IsVisible() {
					_ = m.Select(ctx, rapid.IntRange(0, len(items)-1).Draw(rt, "index"))
				}
			case "deselect":
				if m.IsVisible() {
					_ = m.Deselect(ctx)
				}
			case "close":
				_ = m.Close(ctx)
			case "fill":
				_ = m.Fill(ctx, items)
			}
			s.ClearFailures()

			win, hasWindow := m.Window()
			_, hasWidth := m.Width()
			if m.IsVisible() != hasWindow {
				rt.Fatalf("visible %v but window %v", m.IsVisible(), hasWindow)
			}
			if hasWidth != hasWindow {
				rt.Fatalf("width %v but window %v", hasWidth, hasWindow)
			}
			if m.IsItemSelected() && !hasWindow {
				rt.Fatalf("selection without window")
			}
			visible := s.VisibleWindows()
			if hasWindow {
				if len(visible) != 1 || visible[0].ID != win {
					rt.Fatalf("menu window %d but surface shows %+v", win, visible)
				}
				if idx, ok := m.SelectedIndex(); ok && visible[0].CursorRow != idx+1 {
					rt.Fatalf("selected %d but cursor row %d", idx, visible[0].CursorRow)
				}
				if cursorLine := visible[0].Options[surface.OptionCursorLine] == true; cursorLine != m.IsItemSelected() {
					rt.Fatalf("selected %v but cursorline %v", m.IsItemSelected(), cursorLine)
				}
			} else if len(visible) != 0 {
				rt.Fatalf("menu closed but surface shows %+v", visible)
			}
		}
	})
}

// mockSurface is a testify mock of surface.Surface.
type mockSurface struct {
	mock.Mock
}

func (m *mockSurface) CreateContentStore(ctx context.Context, listed, scratch bool) (surface.Content, error) {
	args := m.Called(ctx, listed, scratch)
	return args.Get(0).(surface.Content), args.Error(1)
}

func (m *mockSurface) CreateHighlightNamespace(ctx context.Context, name string) (surface.Namespace, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(surface.Namespace), args.Error(1)
}

func (m *mockSurface) ReplaceLines(ctx context.Context, content surface.Content, start, end int, lines []string) error {
	return m.Called(ctx, content, start, end, lines).Error(0)
}

func (m *mockSurface) ClearNamespace(ctx context.Context, content surface.Content, ns surface.Namespace, start, end int) error {
	return m.Called(ctx, content, ns, start, end).Error(0)
}

func (m *mockSurface) SetHighlightMark(ctx context.Context, content surface.Content, ns surface.Namespace, row, col int, opts surface.MarkOptions) error {
	return m.Called(ctx, content, ns, row, col, opts).Error(0)
}

func (m *mockSurface) OpenWindow(ctx context.Context, content surface.Content, enter bool, cfg surface.WindowConfig) (surface.Window, error) {
	args := m.Called(ctx, content, enter, cfg)
	return args.Get(0).(surface.Window), args.Error(1)
}

func (m *mockSurface) SetWindowOption(ctx context.Context, win surface.Window, name string, value any) error {
	return m.Called(ctx, win, name, value).Error(0)
}

func (m *mockSurface) SetWindowConfig(ctx context.Context, win surface.Window, cfg surface.WindowConfig) error {
	return m.Called(ctx, win, cfg).Error(0)
}

func (m *mockSurface) SetWindowCursor(ctx context.Context, win surface.Window, row, col int) error {
	return m.Called(ctx, win, row, col).Error(0)
}

func (m *mockSurface) HideWindow(ctx context.Context, win surface.Window) error {
	return m.Called(ctx, win).Error(0)
}

func TestMenu_HostCallSequence(t *testing.T) {
	ctx := context.Background()
	s := &mockSurface{}
	content := surface.Content(7)
	ns := surface.Namespace(3)
	win := surface.Window(1001)

	s.On("CreateContentStore", ctx, false, true).Return(content, nil).Once()
	s.On("CreateHighlightNamespace", ctx, NamespaceName).Return(ns, nil).Once()
	s.On("OpenWindow", ctx, content, false, mock.MatchedBy(func(cfg surface.WindowConfig) bool {
		return cfg.Relative == surface.RelativeCursor && !cfg.Focusable && cfg.NoAutocmd &&
			cfg.Style == surface.StyleMinimal && cfg.Width == 10 && cfg.Height == 3
	})).Return(win, nil).Once()
	s.On("SetWindowOption", ctx, win, surface.OptionWinHighlight, WinHighlight).Return(nil).Once()
	s.On("SetWindowOption", ctx, win, surface.OptionScrollOff, 0).Return(nil).Once()
	s.On("ReplaceLines", ctx, content, 0, -1, []string{"foo", "bar", "baz"}).Return(nil).Once()
	s.On("ClearNamespace", ctx, content, ns, 0, -1).Return(nil).Once()
	s.On("SetHighlightMark", ctx, content, ns, 0, 0, surface.MarkOptions{
		ID: 1, EndRow: 0, EndCol: 2, Group: "Match", Priority: MarkPriority,
	}).Return(nil).Once()
	s.On("SetWindowCursor", ctx, win, 1, 0).Return(nil).Once()
	s.On("HideWindow", ctx, win).Return(nil).Once()

	m, err := New(ctx, s)
	require.NoError(t, err)
	require.NoError(t, m.Spawn(ctx, Position{Row: 1, Width: 10, Height: 3}, surface.NoBorder{}))
	require.NoError(t, m.Fill(ctx, threeItems()))
	require.NoError(t, m.Close(ctx))

	s.AssertExpectations(t)
}

func TestMenu_ReturnsHostErrorUnchanged(t *testing.T) {
	ctx := context.Background()
	s := &mockSurface{}
	hostErr := surface.Wrap(surface.OpReplaceLines, surface.ErrInvalidParameter)

	s.On("CreateContentStore", ctx, false, true).Return(surface.Content(1), nil)
	s.On("CreateHighlightNamespace", ctx, NamespaceName).Return(surface.Namespace(1), nil)
	s.On("ReplaceLines", ctx, surface.Content(1), 0, -1, mock.Anything).Return(hostErr)

	m, err := New(ctx, s)
	require.NoError(t, err)

	err = m.Fill(ctx, threeItems())
	require.Same(t, hostErr, err)
	s.AssertNotCalled(t, "ClearNamespace", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
