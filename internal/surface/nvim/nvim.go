// Package nvim implements the Display Surface against a running Neovim
// instance over msgpack-RPC.
package nvim

import (
	"context"
	"fmt"

	"github.com/neovim/go-client/nvim"

	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/surface"
	"github.com/zjrosen/compleet/internal/ui/menu"
)

// client is the subset of *nvim.Nvim the surface uses.
type client interface {
	CreateBuffer(listed, scratch bool) (nvim.Buffer, error)
	CreateNamespace(name string) (int, error)
	SetBufferLines(buffer nvim.Buffer, start, end int, strict bool, replacement [][]byte) error
	SetBufferExtmark(buffer nvim.Buffer, nsID, line, col int, opts map[string]any) (int, error)
	SetWindowOption(window nvim.Window, name string, value any) error
	SetWindowCursor(window nvim.Window, pos [2]int) error
	CurrentWindow() (nvim.Window, error)
	WindowWidth(window nvim.Window) (int, error)
	WindowHeight(window nvim.Window) (int, error)
	Call(fname string, result any, args ...any) error
	Request(procedure string, result any, args ...any) error
	Close() error
}

var _ client = (*nvim.Nvim)(nil)

// Surface drives Neovim floating windows, buffers and extmarks.
type Surface struct {
	v client
}

var _ surface.Surface = (*Surface)(nil)

// Dial connects to the Neovim listening at address, usually $NVIM.
func Dial(address string) (*Surface, error) {
	v, err := nvim.Dial(address)
	if err != nil {
		return nil, fmt.Errorf("dial nvim %s: %w", address, err)
	}
	log.Info(log.CatNvim, "Attached to nvim", "address", address)
	return &Surface{v: v}, nil
}

// Close closes the RPC connection.
func (s *Surface) Close() error {
	return s.v.Close()
}

// call runs fn unless ctx is already done and wraps the result for op.
func call(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return surface.Wrap(op, err)
	}
	if err := fn(); err != nil {
		log.Debug(log.CatNvim, "RPC failed", "op", op, "error", err)
		return surface.Wrap(op, err)
	}
	return nil
}

func (s *Surface) CreateContentStore(ctx context.Context, listed, scratch bool) (surface.Content, error) {
	var buf nvim.Buffer
	err := call(ctx, surface.OpCreateContentStore, func() (err error) {
		buf, err = s.v.CreateBuffer(listed, scratch)
		return err
	})
	return surface.Content(buf), err
}

func (s *Surface) CreateHighlightNamespace(ctx context.Context, name string) (surface.Namespace, error) {
	var ns int
	err := call(ctx, surface.OpCreateHighlightNamespace, func() (err error) {
		ns, err = s.v.CreateNamespace(name)
		return err
	})
	return surface.Namespace(ns), err
}

func (s *Surface) ReplaceLines(ctx context.Context, content surface.Content, start, end int, lines []string) error {
	return call(ctx, surface.OpReplaceLines, func() error {
		return s.v.SetBufferLines(nvim.Buffer(content), start, end, false, toBytes(lines))
	})
}

func (s *Surface) ClearNamespace(ctx context.Context, content surface.Content, ns surface.Namespace, start, end int) error {
	return call(ctx, surface.OpClearNamespace, func() error {
		return s.v.Request("nvim_buf_clear_namespace", nil, nvim.Buffer(content), int(ns), start, end)
	})
}

func (s *Surface) SetHighlightMark(ctx context.Context, content surface.Content, ns surface.Namespace, row, col int, opts surface.MarkOptions) error {
	return call(ctx, surface.OpSetHighlightMark, func() error {
		_, err := s.v.SetBufferExtmark(nvim.Buffer(content), int(ns), row, col, extmarkOptions(opts))
		return err
	})
}

func (s *Surface) OpenWindow(ctx context.Context, content surface.Content, enter bool, cfg surface.WindowConfig) (surface.Window, error) {
	var win nvim.Window
	err := call(ctx, surface.OpOpenWindow, func() error {
		return s.v.Request("nvim_open_win", &win, nvim.Buffer(content), enter, openConfig(cfg))
	})
	return surface.Window(win), err
}

func (s *Surface) SetWindowOption(ctx context.Context, win surface.Window, name string, value any) error {
	return call(ctx, surface.OpSetWindowOption, func() error {
		return s.v.SetWindowOption(nvim.Window(win), name, value)
	})
}

func (s *Surface) SetWindowConfig(ctx context.Context, win surface.Window, cfg surface.WindowConfig) error {
	return call(ctx, surface.OpSetWindowConfig, func() error {
		return s.v.Request("nvim_win_set_config", nil, nvim.Window(win), moveConfig(cfg))
	})
}

func (s *Surface) SetWindowCursor(ctx context.Context, win surface.Window, row, col int) error {
	return call(ctx, surface.OpSetWindowCursor, func() error {
		return s.v.SetWindowCursor(nvim.Window(win), [2]int{row, col})
	})
}

func (s *Surface) HideWindow(ctx context.Context, win surface.Window) error {
	return call(ctx, surface.OpHideWindow, func() error {
		return s.v.Request("nvim_win_hide", nil, nvim.Window(win))
	})
}

// CursorAndViewport returns the zero-based screen cell of the cursor inside
// the current window and the window size.
func (s *Surface) CursorAndViewport(ctx context.Context) (menu.Cursor, menu.Viewport, error) {
	if err := ctx.Err(); err != nil {
		return menu.Cursor{}, menu.Viewport{}, err
	}

	var line, col int
	if err := s.v.Call("winline", &line); err != nil {
		return menu.Cursor{}, menu.Viewport{}, fmt.Errorf("winline: %w", err)
	}
	if err := s.v.Call("wincol", &col); err != nil {
		return menu.Cursor{}, menu.Viewport{}, fmt.Errorf("wincol: %w", err)
	}

	win, err := s.v.CurrentWindow()
	if err != nil {
		return menu.Cursor{}, menu.Viewport{}, fmt.Errorf("current window: %w", err)
	}
	width, err := s.v.WindowWidth(win)
	if err != nil {
		return menu.Cursor{}, menu.Viewport{}, fmt.Errorf("window width: %w", err)
	}
	height, err := s.v.WindowHeight(win)
	if err != nil {
		return menu.Cursor{}, menu.Viewport{}, fmt.Errorf("window height: %w", err)
	}

	return menu.Cursor{Row: line - 1, Col: col - 1}, menu.Viewport{Width: width, Height: height}, nil
}
