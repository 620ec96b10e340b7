package menu

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/compleet/internal/surface"
)

func bordered(t require.TestingT) surface.Border {
	style, err := surface.NamedBorderStyle(surface.BorderSingle)
	require.NoError(t, err)
	return surface.Bordered{Style: style}
}

func TestCompute(t *testing.T) {
	plain := Settings{MaxWidth: 40, MaxHeight: 10, Border: surface.NoBorder{}}
	framed := Settings{MaxWidth: 40, MaxHeight: 10, Border: bordered(t)}

	tests := []struct {
		name     string
		cursor   Cursor
		viewport Viewport
		count    int
		label    int
		settings Settings
		want     Position
		ok       bool
	}{
		{
			name:     "below cursor",
			cursor:   Cursor{Row: 5, Col: 10},
			viewport: Viewport{Width: 80, Height: 24},
			count:    3, label: 10, settings: plain,
			want: Position{Row: 1, Col: 0, Width: 10, Height: 3}, ok: true,
		},
		{
			name:     "height capped by max height",
			cursor:   Cursor{Row: 0, Col: 0},
			viewport: Viewport{Width: 80, Height: 24},
			count:    50, label: 10, settings: plain,
			want: Position{Row: 1, Col: 0, Width: 10, Height: 10}, ok: true,
		},
		{
			name:     "width capped by max width",
			cursor:   Cursor{Row: 0, Col: 0},
			viewport: Viewport{Width: 80, Height: 24},
			count:    1, label: 60, settings: plain,
			want: Position{Row: 1, Col: 0, Width: 40, Height: 1}, ok: true,
		},
		{
			name:     "empty labels still one cell wide",
			cursor:   Cursor{Row: 0, Col: 0},
			viewport: Viewport{Width: 80, Height: 24},
			count:    2, label: 0, settings: plain,
			want: Position{Row: 1, Col: 0, Width: 1, Height: 2}, ok: true,
		},
		{
			name:     "flips above near bottom",
			cursor:   Cursor{Row: 22, Col: 0},
			viewport: Viewport{Width: 80, Height: 24},
			count:    3, label: 10, settings: plain,
			want: Position{Row: -3, Col: 0, Width: 10, Height: 3}, ok: true,
		},
		{
			name:     "border counts toward the flip",
			cursor:   Cursor{Row: 20, Col: 0},
			viewport: Viewport{Width: 80, Height: 24},
			count:    3, label: 10, settings: framed,
			want: Position{Row: -5, Col: 0, Width: 10, Height: 3}, ok: true,
		},
		{
			name:     "shrinks below when below is larger",
			cursor:   Cursor{Row: 1, Col: 0},
			viewport: Viewport{Width: 80, Height: 6},
			count:    10, label: 10, settings: plain,
			want: Position{Row: 1, Col: 0, Width: 10, Height: 4}, ok: true,
		},
		{
			name:     "shrinks below on ties",
			cursor:   Cursor{Row: 2, Col: 0},
			viewport: Viewport{Width: 80, Height: 5},
			count:    10, label: 10, settings: plain,
			want: Position{Row: 1, Col: 0, Width: 10, Height: 2}, ok: true,
		},
		{
			name:     "shrinks above when above is larger",
			cursor:   Cursor{Row: 4, Col: 0},
			viewport: Viewport{Width: 80, Height: 6},
			count:    10, label: 10, settings: plain,
			want: Position{Row: -4, Col: 0, Width: 10, Height: 4}, ok: true,
		},
		{
			name:     "shrinks above with border",
			cursor:   Cursor{Row: 4, Col: 0},
			viewport: Viewport{Width: 80, Height: 6},
			count:    10, label: 10, settings: framed,
			want: Position{Row: -4, Col: 0, Width: 10, Height: 2}, ok: true,
		},
		{
			name:     "clamped left at right edge",
			cursor:   Cursor{Row: 0, Col: 15},
			viewport: Viewport{Width: 20, Height: 24},
			count:    1, label: 10, settings: plain,
			want: Position{Row: 1, Col: -5, Width: 10, Height: 1}, ok: true,
		},
		{
			name:     "clamped left with border",
			cursor:   Cursor{Row: 0, Col: 15},
			viewport: Viewport{Width: 20, Height: 24},
			count:    1, label: 10, settings: framed,
			want: Position{Row: 1, Col: -7, Width: 10, Height: 1}, ok: true,
		},
		{
			name:     "wider than viewport",
			cursor:   Cursor{Row: 0, Col: 3},
			viewport: Viewport{Width: 8, Height: 24},
			count:    1, label: 30, settings: plain,
			want: Position{Row: 1, Col: -3, Width: 8, Height: 1}, ok: true,
		},
		{
			name:     "wider than viewport with border",
			cursor:   Cursor{Row: 0, Col: 3},
			viewport: Viewport{Width: 8, Height: 24},
			count:    1, label: 30, settings: framed,
			want: Position{Row: 1, Col: -3, Width: 6, Height: 1}, ok: true,
		},
		{
			name:     "no candidates",
			cursor:   Cursor{Row: 0, Col: 0},
			viewport: Viewport{Width: 80, Height: 24},
			count:    0, label: 10, settings: plain,
		},
		{
			name:     "no rows on either side",
			cursor:   Cursor{Row: 0, Col: 0},
			viewport: Viewport{Width: 80, Height: 1},
			count:    3, label: 10, settings: plain,
		},
		{
			name:     "border leaves no room",
			cursor:   Cursor{Row: 1, Col: 0},
			viewport: Viewport{Width: 80, Height: 3},
			count:    3, label: 10, settings: framed,
		},
		{
			name:     "zero max height",
			cursor:   Cursor{Row: 0, Col: 0},
			viewport: Viewport{Width: 80, Height: 24},
			count:    3, label: 10, settings: Settings{MaxWidth: 40, MaxHeight: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compute(tt.cursor, tt.viewport, tt.count, tt.label, tt.settings)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCompute_NilBorderIsNoBorder(t *testing.T) {
	a, okA := Compute(Cursor{Row: 3, Col: 3}, Viewport{Width: 30, Height: 10}, 4, 8, Settings{MaxWidth: 40, MaxHeight: 10})
	b, okB := Compute(Cursor{Row: 3, Col: 3}, Viewport{Width: 30, Height: 10}, 4, 8, Settings{MaxWidth: 40, MaxHeight: 10, Border: surface.NoBorder{}})
	require.Equal(t, okA, okB)
	require.Equal(t, a, b)
}

// TestCompute_Properties checks that every computed menu fits the viewport
// and never exceeds the requested size.
func TestCompute_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		viewport := Viewport{
			Width:  rapid.IntRange(1, 200).Draw(rt, "width"),
			Height: rapid.IntRange(1, 100).Draw(rt, "height"),
		}
		cursor := Cursor{
			Row: rapid.IntRange(0, viewport.Height-1).Draw(rt, "row"),
			Col: rapid.IntRange(0, viewport.Width-1).Draw(rt, "col"),
		}
		count := rapid.IntRange(0, 50).Draw(rt, "count")
		label := rapid.IntRange(0, 120).Draw(rt, "label")
		settings := Settings{
			MaxWidth:  rapid.IntRange(1, 80).Draw(rt, "maxWidth"),
			MaxHeight: rapid.IntRange(1, 30).Draw(rt, "maxHeight"),
			Border:    surface.NoBorder{},
		}
		if rapid.Bool().Draw(rt, "border") {
			settings.Border = bordered(rt)
		}
		frame := 2 * surface.Thickness(settings.Border)

		pos, ok := Compute(cursor, viewport, count, label, settings)

		again, okAgain := Compute(cursor, viewport, count, label, settings)
		if ok != okAgain || pos != again {
			rt.Fatalf("not deterministic: %+v/%v then %+v/%v", pos, ok, again, okAgain)
		}

		below := viewport.Height - cursor.Row - 1
		above := cursor.Row
		if count == 0 || max(below, above) < 1+frame {
			if ok {
				rt.Fatalf("expected no position, got %+v", pos)
			}
			return
		}
		if !ok {
			rt.Fatalf("expected a position")
		}

		if pos.Height < 1 || pos.Height > min(settings.MaxHeight, count) {
			rt.Fatalf("height %d out of range", pos.Height)
		}
		if pos.Width < 1 || pos.Width > max(min(settings.MaxWidth, label), 1) {
			rt.Fatalf("width %d out of range", pos.Width)
		}

		top := cursor.Row + pos.Row
		bottom := top + pos.Height + frame - 1
		if top < 0 || bottom > viewport.Height-1 {
			rt.Fatalf("rows [%d, %d] outside viewport of %d", top, bottom, viewport.Height)
		}
		if pos.Row > 0 && pos.Row != 1 {
			rt.Fatalf("below placement must start on the next row, got %d", pos.Row)
		}
		if pos.Row < 0 && bottom != cursor.Row-1 {
			rt.Fatalf("above placement must end on the previous row, got %d", bottom)
		}

		left := cursor.Col + pos.Col
		if left < 0 || pos.Col > 0 {
			rt.Fatalf("col %d starts outside viewport", pos.Col)
		}
		if viewport.Width >= 1+frame && left+pos.Width+frame > viewport.Width {
			rt.Fatalf("cols [%d, %d) outside viewport of %d", left, left+pos.Width+frame, viewport.Width)
		}
	})
}
