// Package surface defines the Display Surface: the host operations the
// completion menu uses to create and manipulate its floating window, content
// buffer and highlight marks.
//
// Implementations live in subpackages: memory (tests), tui (Bubble Tea) and
// nvim (Neovim over msgpack-RPC). Every call may fail; failures are reported
// as *HostAPIError.
package surface

import "context"

// Content identifies a host content store (a buffer of lines).
type Content int

// Namespace identifies a scope of highlight marks.
type Namespace int

// Window identifies a host floating window.
type Window int

// RelativeCursor anchors a window relative to the text cursor.
const RelativeCursor = "cursor"

// StyleMinimal disables line numbers, sign column and other decorations.
const StyleMinimal = "minimal"

// Window option names understood by every backend.
const (
	OptionWinHighlight = "winhl"
	OptionScrollOff    = "scrolloff"
	OptionCursorLine   = "cursorline"
)

// WindowConfig is the geometry and presentation of a floating window.
// Row and Col are offsets from the anchor named by Relative.
type WindowConfig struct {
	Relative  string
	Row       int
	Col       int
	Width     int
	Height    int
	Focusable bool
	Style     string
	NoAutocmd bool
	// Border is ignored by SetWindowConfig. A nil Border means NoBorder.
	Border Border
}

// MarkOptions describes a highlight mark. The mark starts at the position
// passed to SetHighlightMark and ends at (EndRow, EndCol), exclusive.
type MarkOptions struct {
	ID       int
	EndRow   int
	EndCol   int
	Group    string
	Priority int
}

// Surface is the host editor as seen by the completion menu.
type Surface interface {
	// CreateContentStore allocates a new buffer.
	CreateContentStore(ctx context.Context, listed, scratch bool) (Content, error)

	// CreateHighlightNamespace returns the namespace registered under name,
	// creating it if needed.
	CreateHighlightNamespace(ctx context.Context, name string) (Namespace, error)

	// ReplaceLines replaces lines [start, end) of content. An end of -1
	// means the last line.
	ReplaceLines(ctx context.Context, content Content, start, end int, lines []string) error

	// ClearNamespace removes the marks of ns on lines [start, end) of
	// content. An end of -1 means the last line.
	ClearNamespace(ctx context.Context, content Content, ns Namespace, start, end int) error

	// SetHighlightMark creates or moves the mark opts.ID of ns to start at
	// (row, col). Rows and columns are zero-based, columns are bytes.
	SetHighlightMark(ctx context.Context, content Content, ns Namespace, row, col int, opts MarkOptions) error

	// OpenWindow shows content in a new floating window.
	OpenWindow(ctx context.Context, content Content, enter bool, cfg WindowConfig) (Window, error)

	// SetWindowOption sets a window-local option.
	SetWindowOption(ctx context.Context, win Window, name string, value any) error

	// SetWindowConfig moves or resizes an existing window in place.
	SetWindowConfig(ctx context.Context, win Window, cfg WindowConfig) error

	// SetWindowCursor moves the cursor of win. Row is one-based, col is
	// zero-based.
	SetWindowCursor(ctx context.Context, win Window, row, col int) error

	// HideWindow closes win without touching its content store.
	HideWindow(ctx context.Context, win Window) error
}
