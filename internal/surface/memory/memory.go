// Package memory provides an in-memory Display Surface. It keeps the same
// bookkeeping a real host would (buffers, namespaces, marks, windows) and
// records every call, which makes it the backend of choice for tests. The tui
// backend builds its rendering on top of it.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zjrosen/compleet/internal/surface"
)

// firstWindowID matches the numbering hosts such as Neovim use.
const firstWindowID = 1000

// Mark is a registered highlight mark.
type Mark struct {
	Content   surface.Content
	Namespace surface.Namespace
	ID        int
	Row       int
	Col       int
	EndRow    int
	EndCol    int
	Group     string
	Priority  int
}

// WindowState is a snapshot of a window.
type WindowState struct {
	ID        surface.Window
	Content   surface.Content
	Config    surface.WindowConfig
	Options   map[string]any
	CursorRow int
	CursorCol int
	Hidden    bool
}

// Option returns the value of a window option.
func (w WindowState) Option(name string) (any, bool) {
	v, ok := w.Options[name]
	return v, ok
}

// Call is a recorded Display Surface call.
type Call struct {
	Op   string
	Args []any
	Err  error
}

type buffer struct {
	lines   []string
	listed  bool
	scratch bool
}

type markKey struct {
	content surface.Content
	ns      surface.Namespace
	id      int
}

type failure struct {
	err  error
	once bool
}

// Surface is an in-memory implementation of surface.Surface.
// It is safe for concurrent use.
type Surface struct {
	mu sync.Mutex

	nextContent   int
	nextNamespace int
	nextWindow    int

	buffers    map[surface.Content]*buffer
	namespaces map[string]surface.Namespace
	marks      map[markKey]Mark
	windows    map[surface.Window]*WindowState

	calls    []Call
	failures map[string]failure
}

var _ surface.Surface = (*Surface)(nil)

// New creates an empty surface.
func New() *Surface {
	return &Surface{
		nextWindow: firstWindowID,
		buffers:    make(map[surface.Content]*buffer),
		namespaces: make(map[string]surface.Namespace),
		marks:      make(map[markKey]Mark),
		windows:    make(map[surface.Window]*WindowState),
		failures:   make(map[string]failure),
	}
}

// FailOn makes every subsequent call to op fail with err until
// ClearFailures is called.
func (s *Surface) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{err: err}
}

// FailNext makes only the next call to op fail with err.
func (s *Surface) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{err: err, once: true}
}

// ClearFailures removes all injected failures.
func (s *Surface) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// begin records the call and returns the injected failure for op, if any.
// Callers must hold s.mu.
func (s *Surface) begin(op string, args ...any) error {
	var err error
	if f, ok := s.failures[op]; ok {
		err = f.err
		if f.once {
			delete(s.failures, op)
		}
	}
	s.calls = append(s.calls, Call{Op: op, Args: args, Err: err})
	return surface.Wrap(op, err)
}

// fail records err against the last call and wraps it. Callers must hold s.mu.
func (s *Surface) fail(op string, err error) error {
	if n := len(s.calls); n > 0 {
		s.calls[n-1].Err = err
	}
	return surface.Wrap(op, err)
}

func (s *Surface) CreateContentStore(_ context.Context, listed, scratch bool) (surface.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(surface.OpCreateContentStore, listed, scratch); err != nil {
		return 0, err
	}
	s.nextContent++
	id := surface.Content(s.nextContent)
	s.buffers[id] = &buffer{lines: []string{""}, listed: listed, scratch: scratch}
	return id, nil
}

func (s *Surface) CreateHighlightNamespace(_ context.Context, name string) (surface.Namespace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(surface.OpCreateHighlightNamespace, name); err != nil {
		return 0, err
	}
	if ns, ok := s.namespaces[name]; ok {
		return ns, nil
	}
	s.nextNamespace++
	ns := surface.Namespace(s.nextNamespace)
	s.namespaces[name] = ns
	return ns, nil
}

func (s *Surface) ReplaceLines(_ context.Context, content surface.Content, start, end int, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpReplaceLines
	if err := s.begin(op, content, start, end, append([]string(nil), lines...)); err != nil {
		return err
	}
	buf, ok := s.buffers[content]
	if !ok {
		return s.fail(op, fmt.Errorf("content %d: %w", content, surface.ErrInvalidHandle))
	}
	start, end, err := resolveRange(start, end, len(buf.lines))
	if err != nil {
		return s.fail(op, err)
	}

	replaced := make([]string, 0, len(buf.lines)-(end-start)+len(lines))
	replaced = append(replaced, buf.lines[:start]...)
	replaced = append(replaced, lines...)
	replaced = append(replaced, buf.lines[end:]...)
	if len(replaced) == 0 {
		// A buffer always has at least one line.
		replaced = []string{""}
	}
	buf.lines = replaced
	return nil
}

func (s *Surface) ClearNamespace(_ context.Context, content surface.Content, ns surface.Namespace, start, end int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpClearNamespace
	if err := s.begin(op, content, ns, start, end); err != nil {
		return err
	}
	if _, ok := s.buffers[content]; !ok {
		return s.fail(op, fmt.Errorf("content %d: %w", content, surface.ErrInvalidHandle))
	}
	for key, mark := range s.marks {
		if key.content != content || key.ns != ns {
			continue
		}
		if mark.Row >= start && (end < 0 || mark.Row < end) {
			delete(s.marks, key)
		}
	}
	return nil
}

func (s *Surface) SetHighlightMark(_ context.Context, content surface.Content, ns surface.Namespace, row, col int, opts surface.MarkOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpSetHighlightMark
	if err := s.begin(op, content, ns, row, col, opts); err != nil {
		return err
	}
	buf, ok := s.buffers[content]
	if !ok {
		return s.fail(op, fmt.Errorf("content %d: %w", content, surface.ErrInvalidHandle))
	}
	if !s.hasNamespace(ns) {
		return s.fail(op, fmt.Errorf("namespace %d: %w", ns, surface.ErrInvalidHandle))
	}
	if err := checkPosition(buf.lines, row, col); err != nil {
		return s.fail(op, err)
	}
	if err := checkPosition(buf.lines, opts.EndRow, opts.EndCol); err != nil {
		return s.fail(op, fmt.Errorf("end: %w", err))
	}

	id := opts.ID
	if id <= 0 {
		id = s.nextMarkID(content, ns)
	}
	s.marks[markKey{content: content, ns: ns, id: id}] = Mark{
		Content:   content,
		Namespace: ns,
		ID:        id,
		Row:       row,
		Col:       col,
		EndRow:    opts.EndRow,
		EndCol:    opts.EndCol,
		Group:     opts.Group,
		Priority:  opts.Priority,
	}
	return nil
}

func (s *Surface) OpenWindow(_ context.Context, content surface.Content, enter bool, cfg surface.WindowConfig) (surface.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpOpenWindow
	if err := s.begin(op, content, enter, cfg); err != nil {
		return 0, err
	}
	if _, ok := s.buffers[content]; !ok {
		return 0, s.fail(op, fmt.Errorf("content %d: %w", content, surface.ErrInvalidHandle))
	}
	if err := checkConfig(cfg); err != nil {
		return 0, s.fail(op, err)
	}
	if cfg.Border == nil {
		cfg.Border = surface.NoBorder{}
	}

	id := surface.Window(s.nextWindow)
	s.nextWindow++
	s.windows[id] = &WindowState{
		ID:        id,
		Content:   content,
		Config:    cfg,
		Options:   map[string]any{surface.OptionCursorLine: false},
		CursorRow: 1,
	}
	return id, nil
}

func (s *Surface) SetWindowOption(_ context.Context, win surface.Window, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpSetWindowOption
	if err := s.begin(op, win, name, value); err != nil {
		return err
	}
	w, err := s.liveWindow(win)
	if err != nil {
		return s.fail(op, err)
	}
	if name == "" {
		return s.fail(op, fmt.Errorf("empty option name: %w", surface.ErrInvalidParameter))
	}
	w.Options[name] = value
	return nil
}

func (s *Surface) SetWindowConfig(_ context.Context, win surface.Window, cfg surface.WindowConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpSetWindowConfig
	if err := s.begin(op, win, cfg); err != nil {
		return err
	}
	w, err := s.liveWindow(win)
	if err != nil {
		return s.fail(op, err)
	}
	if err := checkConfig(cfg); err != nil {
		return s.fail(op, err)
	}
	w.Config.Relative = cfg.Relative
	w.Config.Row = cfg.Row
	w.Config.Col = cfg.Col
	w.Config.Width = cfg.Width
	w.Config.Height = cfg.Height
	return nil
}

func (s *Surface) SetWindowCursor(_ context.Context, win surface.Window, row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpSetWindowCursor
	if err := s.begin(op, win, row, col); err != nil {
		return err
	}
	w, err := s.liveWindow(win)
	if err != nil {
		return s.fail(op, err)
	}
	lines := s.buffers[w.Content].lines
	if row < 1 || row > len(lines) || col < 0 {
		return s.fail(op, fmt.Errorf("cursor (%d, %d) outside buffer: %w", row, col, surface.ErrInvalidParameter))
	}
	w.CursorRow = row
	w.CursorCol = col
	return nil
}

func (s *Surface) HideWindow(_ context.Context, win surface.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := surface.OpHideWindow
	if err := s.begin(op, win); err != nil {
		return err
	}
	w, err := s.liveWindow(win)
	if err != nil {
		return s.fail(op, err)
	}
	w.Hidden = true
	return nil
}

// liveWindow returns a window that has not been hidden. Callers must hold s.mu.
func (s *Surface) liveWindow(win surface.Window) (*WindowState, error) {
	w, ok := s.windows[win]
	if !ok || w.Hidden {
		return nil, fmt.Errorf("window %d: %w", win, surface.ErrInvalidHandle)
	}
	return w, nil
}

func (s *Surface) hasNamespace(ns surface.Namespace) bool {
	for _, id := range s.namespaces {
		if id == ns {
			return true
		}
	}
	return false
}

func (s *Surface) nextMarkID(content surface.Content, ns surface.Namespace) int {
	next := 1
	for key := range s.marks {
		if key.content == content && key.ns == ns && key.id >= next {
			next = key.id + 1
		}
	}
	return next
}

func resolveRange(start, end, n int) (int, int, error) {
	if end < 0 {
		end = n
	}
	if start < 0 || start > n || end > n || start > end {
		return 0, 0, fmt.Errorf("line range [%d, %d) outside buffer of %d lines: %w", start, end, n, surface.ErrInvalidParameter)
	}
	return start, end, nil
}

func checkPosition(lines []string, row, col int) error {
	if row < 0 || row >= len(lines) {
		return fmt.Errorf("row %d outside buffer: %w", row, surface.ErrInvalidParameter)
	}
	if col < 0 || col > len(lines[row]) {
		return fmt.Errorf("col %d outside line %d: %w", col, row, surface.ErrInvalidParameter)
	}
	return nil
}

func checkConfig(cfg surface.WindowConfig) error {
	if cfg.Relative == "" {
		return fmt.Errorf("missing relative anchor: %w", surface.ErrInvalidParameter)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return fmt.Errorf("window size %dx%d: %w", cfg.Width, cfg.Height, surface.ErrInvalidParameter)
	}
	return nil
}

// Lines returns a copy of the lines of content.
func (s *Surface) Lines(content surface.Content) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.buffers[content]
	if !ok {
		return nil
	}
	return append([]string(nil), buf.lines...)
}

// Marks returns the marks of ns on content, ordered by id.
func (s *Surface) Marks(content surface.Content, ns surface.Namespace) []Mark {
	s.mu.Lock()
	defer s.mu.Unlock()

	var marks []Mark
	for key, mark := range s.marks {
		if key.content == content && key.ns == ns {
			marks = append(marks, mark)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].ID < marks[j].ID })
	return marks
}

// ContentMarks returns every mark on content across namespaces, ordered by
// priority, then namespace, then id.
func (s *Surface) ContentMarks(content surface.Content) []Mark {
	s.mu.Lock()
	defer s.mu.Unlock()

	var marks []Mark
	for key, mark := range s.marks {
		if key.content == content {
			marks = append(marks, mark)
		}
	}
	sort.Slice(marks, func(i, j int) bool {
		a, b := marks[i], marks[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.ID < b.ID
	})
	return marks
}

// Window returns a snapshot of win, including hidden windows.
func (s *Surface) Window(win surface.Window) (WindowState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[win]
	if !ok {
		return WindowState{}, false
	}
	return w.snapshot(), true
}

// VisibleWindows returns snapshots of all shown windows, ordered by id.
func (s *Surface) VisibleWindows() []WindowState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []WindowState
	for _, w := range s.windows {
		if !w.Hidden {
			out = append(out, w.snapshot())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Calls returns the recorded calls in order.
func (s *Surface) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many times op was called.
func (s *Surface) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ResetCalls forgets the recorded calls.
func (s *Surface) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (w *WindowState) snapshot() WindowState {
	out := *w
	out.Options = make(map[string]any, len(w.Options))
	for k, v := range w.Options {
		out.Options[k] = v
	}
	return out
}
