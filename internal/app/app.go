// Package app contains the demo editor: a small text buffer whose completion
// menu is drawn by the terminal Display Surface.
package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/compleet/internal/completion"
	"github.com/zjrosen/compleet/internal/config"
	"github.com/zjrosen/compleet/internal/keys"
	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/mappings"
	"github.com/zjrosen/compleet/internal/pubsub"
	"github.com/zjrosen/compleet/internal/surface"
	"github.com/zjrosen/compleet/internal/surface/tui"
	"github.com/zjrosen/compleet/internal/tracing"
	"github.com/zjrosen/compleet/internal/ui/menu"
	"github.com/zjrosen/compleet/internal/ui/styles"
	"github.com/zjrosen/compleet/internal/ui/toaster"
	"github.com/zjrosen/compleet/internal/watcher"
)

// logPaneLines is the number of log entries shown in debug mode.
const logPaneLines = 5

var (
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	logStyle      = lipgloss.NewStyle().Faint(true)
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AF68"))
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E"))
)

// shortMenuID is the number of menu id characters shown in the log pane.
const shortMenuID = 8

// Options configures the editor.
type Options struct {
	Config     config.Config
	ConfigPath string
	Debug      bool
	// Tracer records display surface calls. Nil disables tracing.
	Tracer trace.Tracer
	// Text is the initial buffer content.
	Text string
	// Watch reloads the config file when it changes.
	Watch bool
}

// configLoadedMsg carries the result of reloading the config file.
type configLoadedMsg struct {
	cfg config.Config
	err error
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	debugMode  bool

	keys keys.KeyMap
	help help.Model

	buf *buffer
	top int

	display *tui.Surface
	state   *mappings.State
	ctx     context.Context
	cancel  context.CancelFunc

	width  int
	height int

	toast toaster.Model

	logEntries []log.Entry
	logSub     *pubsub.Subscription[log.Entry]

	watcherHandle *watcher.Watcher
	watchSub      *pubsub.Subscription[string]
}

// New creates the editor and its completion menu.
func New(opts Options) (Model, error) {
	settings, err := opts.Config.UI.Menu.Settings()
	if err != nil {
		return Model{}, err
	}
	if err := styles.ApplyTheme(opts.Config.Theme.FlattenedColors()); err != nil {
		return Model{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	display := tui.New(0, 0)
	m, err := menu.New(ctx, tracing.NewSurface(display, opts.Tracer))
	if err != nil {
		cancel()
		return Model{}, err
	}

	model := Model{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		debugMode:  opts.Debug,
		keys:       keys.DefaultKeyMap(),
		help:       help.New(),
		toast:      toaster.New(),
		buf:        newBuffer(opts.Text),
		display:    display,
		state:      mappings.NewState(m, settings),
		ctx:        tracing.ContextWithSessionID(ctx, m.ID()),
		cancel:     cancel,
	}

	if opts.Debug {
		model.logSub = log.Subscribe(ctx)
	}

	if opts.Watch && opts.ConfigPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(opts.ConfigPath))
		if err != nil {
			log.Warn(log.CatWatcher, "Config watcher disabled", "error", err)
		} else {
			model.watchSub = w.Subscribe(ctx)
			if err := w.Start(); err == nil {
				model.watcherHandle = w
			} else {
				log.Warn(log.CatWatcher, "Config watcher disabled", "error", err)
				_ = w.Stop()
				model.watchSub = nil
			}
		}
	}

	log.Info(log.CatUI, "Editor started", log.KeyMenu, m.ID(), "config", opts.ConfigPath)
	return model, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.logSub != nil {
		cmds = append(cmds, m.logSub.Next())
	}
	if m.watchSub != nil {
		cmds = append(cmds, m.watchSub.Next())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	seq := m.toast.Seq()
	var cmd tea.Cmd
	m, cmd = m.update(msg)
	m.display.SetSize(m.width, m.editorHeight())
	if m.toast.Seq() != seq {
		cmd = tea.Batch(cmd, m.toast.ScheduleDismiss(toaster.DefaultDuration))
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.display.SetSize(m.width, m.editorHeight())
		m.scrollToCursor()
		m.report(m.refreshCompletions(false))
		return m, nil

	case pubsub.Event[log.Entry]:
		m.appendLog(msg.Payload)
		if m.logSub == nil {
			return m, nil
		}
		return m, m.logSub.Next()

	case pubsub.Event[string]:
		return m.handleWatcherEvent(msg)

	case configLoadedMsg:
		m.applyConfig(msg.cfg, msg.err)
		return m, nil

	case toaster.DismissMsg:
		m.toast = m.toast.Dismiss(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.display.SetSize(m.width, m.editorHeight())
		m.scrollToCursor()
		m.report(m.refreshCompletions(false))
		return m, nil

	case key.Matches(msg, m.keys.Show):
		m.report(m.refreshCompletions(true))
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if !m.state.Menu.IsVisible() {
			m.report(m.refreshCompletions(true))
			return m, nil
		}
		m.report(mappings.SelectNextCompletion(m.ctx, m.state))
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.report(mappings.SelectPrevCompletion(m.ctx, m.state))
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		m.accept()
		return m, nil

	case key.Matches(msg, m.keys.Close):
		m.report(mappings.CloseCompletions(m.ctx, m.state))
		return m, nil

	case key.Matches(msg, m.keys.ToggleBorder):
		m.toggleBorder()
		return m, nil

	case key.Matches(msg, m.keys.SaveLayout):
		m.saveLayout()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(m.buf.up)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.buf.down)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(m.buf.left)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.moveCursor(m.buf.right)
		return m, nil

	case key.Matches(msg, m.keys.Newline):
		m.buf.newline()
		m.scrollToCursor()
		m.report(mappings.CloseCompletions(m.ctx, m.state))
		return m, nil

	case key.Matches(msg, m.keys.Backspace):
		m.buf.backspace()
		m.scrollToCursor()
		m.report(m.refreshCompletions(false))
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.buf.insert(string(msg.Runes))
	case tea.KeySpace:
		m.buf.insert(" ")
	default:
		return m, nil
	}
	m.scrollToCursor()
	m.report(m.refreshCompletions(m.cfg.Completion.Autoshow))
	return m, nil
}

// moveCursor applies move and closes the menu.
func (m *Model) moveCursor(move func()) {
	move()
	m.scrollToCursor()
	m.report(mappings.CloseCompletions(m.ctx, m.state))
	m.report(m.refreshCompletions(false))
}

// candidates returns the completions for the word before the cursor.
func (m *Model) candidates() []completion.Item {
	words := slices.Concat(m.cfg.Completion.Words, m.buf.words())
	return completion.PrefixMatch(m.buf.prefix(), words, menu.GroupMatchingChars)
}

// refreshCompletions recomputes the completions, moving an open menu along,
// and opens the menu when show is set.
func (m *Model) refreshCompletions(show bool) error {
	cursor, viewport := m.cursorPosition()
	if err := mappings.UpdateCompletions(m.ctx, m.state, m.candidates(), cursor, viewport); err != nil {
		return err
	}
	if !show {
		return nil
	}
	return mappings.ShowCompletions(m.ctx, m.state, cursor, viewport)
}

// accept replaces the word before the cursor with the selected completion.
func (m *Model) accept() {
	item, ok := mappings.SelectedCompletion(m.state)
	if !ok {
		return
	}
	m.buf.replacePrefix(item.Label)
	m.scrollToCursor()
	m.report(mappings.CloseCompletions(m.ctx, m.state))
	m.report(m.refreshCompletions(false))
	log.Debug(log.CatUI, "Completion accepted", "label", item.Label)
}

// toggleBorder flips the menu border. The border is fixed when the window
// opens, so an open menu is reopened.
func (m *Model) toggleBorder() {
	m.cfg.UI.Menu.Border.Enable = !m.cfg.UI.Menu.Border.Enable
	settings, err := m.cfg.UI.Menu.Settings()
	if err != nil {
		m.report(err)
		return
	}
	m.state.Settings = settings

	if !m.state.Menu.IsVisible() {
		return
	}
	if err := mappings.CloseCompletions(m.ctx, m.state); err != nil {
		m.report(err)
		return
	}
	m.report(m.refreshCompletions(true))
}

func (m *Model) saveLayout() {
	if m.configPath == "" {
		m.notify("no config file to save to", toaster.StyleError)
		return
	}
	if err := config.SaveMenu(m.configPath, m.cfg.UI.Menu); err != nil {
		m.report(err)
		return
	}
	m.notify("menu layout saved", toaster.StyleSuccess)
}

func (m Model) handleWatcherEvent(msg pubsub.Event[string]) (Model, tea.Cmd) {
	if m.watchSub == nil {
		return m, nil
	}
	listen := m.watchSub.Next()

	switch msg.Type {
	case pubsub.UpdatedEvent:
		path := msg.Payload
		return m, tea.Batch(listen, func() tea.Msg {
			cfg, err := config.Load(path)
			return configLoadedMsg{cfg: cfg, err: err}
		})
	case pubsub.DeletedEvent:
		m.notify("config file removed, keeping current settings", toaster.StyleInfo)
	case pubsub.ErrorEvent:
		log.Warn(log.CatWatcher, "Watcher error received", "error", msg.Payload)
	}
	return m, listen
}

// applyConfig swaps in a reloaded config. An invalid config is reported and
// the previous one stays active.
func (m *Model) applyConfig(cfg config.Config, err error) {
	if err != nil {
		log.ErrorErr(log.CatConfig, "Config reload failed", err)
		m.notify(err.Error(), toaster.StyleError)
		return
	}
	settings, err := cfg.UI.Menu.Settings()
	if err != nil {
		m.notify(err.Error(), toaster.StyleError)
		return
	}
	if err := styles.ApplyTheme(cfg.Theme.FlattenedColors()); err != nil {
		m.notify(err.Error(), toaster.StyleError)
		return
	}

	borderChanged := surface.HasBorder(settings.Border) != surface.HasBorder(m.state.Settings.Border)
	m.cfg = cfg
	m.state.Settings = settings
	log.Info(log.CatConfig, "Config reloaded", "max_width", settings.MaxWidth, "max_height", settings.MaxHeight)
	m.notify("config reloaded", toaster.StyleSuccess)

	if !m.state.Menu.IsVisible() {
		return
	}
	if borderChanged {
		m.report(mappings.CloseCompletions(m.ctx, m.state))
		m.report(m.refreshCompletions(true))
		return
	}
	m.report(m.refreshCompletions(false))
}

// report logs a failed menu operation and shows it as a toast.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	log.ErrorErr(log.CatUI, "Menu operation failed", err)
	m.notify(err.Error(), toaster.StyleError)
}

func (m *Model) notify(message string, style toaster.Style) {
	m.toast = m.toast.Show(message, style)
}

func (m *Model) appendLog(entry log.Entry) {
	m.logEntries = append(m.logEntries, entry)
	if n := len(m.logEntries); n > logPaneLines {
		m.logEntries = m.logEntries[n-logPaneLines:]
	}
}

// formatLogEntry renders an entry for the log pane: level, category and
// message, the short menu id when the entry names one, then the remaining
// fields.
func formatLogEntry(e log.Entry) string {
	parts := []string{fmt.Sprintf("%-5s %s: %s", e.Level, e.Category, e.Message)}
	if id := e.MenuID(); id != "" {
		parts = append(parts, "#"+id[:min(len(id), shortMenuID)])
	}
	rest := e
	rest.Fields = slices.DeleteFunc(slices.Clone(e.Fields), func(f log.Field) bool {
		return f.Key == log.KeyMenu
	})
	if fields := rest.FormatFields(); fields != "" {
		parts = append(parts, fields)
	}
	return strings.Join(parts, " ")
}

func logLineStyle(level log.Level) lipgloss.Style {
	switch level {
	case log.LevelError:
		return logErrorStyle
	case log.LevelWarn:
		return logWarnStyle
	default:
		return logStyle
	}
}

// cursorPosition returns the cursor cell inside the editing area and the
// area's size.
func (m *Model) cursorPosition() (menu.Cursor, menu.Viewport) {
	cursor := menu.Cursor{Row: m.buf.row - m.top, Col: m.buf.cursorCell()}
	return cursor, menu.Viewport{Width: m.width, Height: m.editorHeight()}
}

func (m *Model) scrollToCursor() {
	h := m.editorHeight()
	if h < 1 {
		return
	}
	if m.buf.row < m.top {
		m.top = m.buf.row
	}
	if m.buf.row >= m.top+h {
		m.top = m.buf.row - h + 1
	}
}

func (m Model) footer() string {
	parts := []string{m.helpView()}
	if m.debugMode {
		if m.logSub != nil {
			if n := m.logSub.Dropped(); n > 0 {
				parts = append(parts, logWarnStyle.Render(fmt.Sprintf("%d log entries dropped", n)))
			}
		}
		for _, e := range m.logEntries {
			line := ansi.Truncate(formatLogEntry(e), m.width, "…")
			parts = append(parts, logLineStyle(e.Level).Render(line))
		}
	}
	return strings.Join(parts, "\n")
}

// helpView shows the menu keys while the menu is open and the short editor
// help otherwise. The full help always lists everything.
func (m Model) helpView() string {
	if m.help.ShowAll || m.state == nil || !m.state.Menu.IsVisible() {
		return m.help.View(m.keys)
	}
	return m.help.ShortHelpView(append(m.keys.MenuBindings(), m.keys.Help))
}

func (m Model) editorHeight() int {
	return max(m.height-lipgloss.Height(m.footer()), 0)
}

func (m Model) renderEditor() string {
	h := m.editorHeight()
	rows := make([]string, h)
	for i := range rows {
		idx := m.top + i
		if idx >= len(m.buf.lines) {
			rows[i] = "~"
			continue
		}
		line := m.buf.lines[idx]
		if idx == m.buf.row {
			line = renderCursor(line, m.buf.col)
		}
		rows[i] = ansi.Truncate(line, m.width, "")
	}
	return strings.Join(rows, "\n")
}

// renderCursor draws the cursor cell at byte offset col of line.
func renderCursor(line string, col int) string {
	if col >= len(line) {
		return line + cursorStyle.Render(" ")
	}
	_, size := utf8.DecodeRuneInString(line[col:])
	return line[:col] + cursorStyle.Render(line[col:col+size]) + line[col+size:]
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	cursor, _ := m.cursorPosition()
	editor := m.display.Render(m.renderEditor(), tui.Point{Row: cursor.Row, Col: cursor.Col})
	editor = m.toast.Overlay(editor, m.width, m.editorHeight())
	return editor + "\n" + m.footer()
}

// Text returns the buffer content.
func (m Model) Text() string {
	return m.buf.String()
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	_ = mappings.CloseCompletions(m.ctx, m.state)
	m.cancel()

	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
