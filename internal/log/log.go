// Package log writes leveled, categorized debug logs for compleet and
// publishes every entry so the demo editor can show them live. Logging is
// off until Open or SetDefault installs a logger; it is turned on by the
// --debug flag or COMPLEET_DEBUG.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/compleet/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Category groups related log messages.
type Category string

const (
	CatMenu    Category = "menu"    // Completion menu lifecycle
	CatSurface Category = "surface" // Display surface backends
	CatConfig  Category = "config"  // Configuration loading/saving
	CatNvim    Category = "nvim"    // Neovim RPC connection
	CatUI      Category = "ui"      // Demo editor updates
	CatWatcher Category = "watcher" // File watcher events
	CatTrace   Category = "trace"   // Tracing provider and exporters
)

// KeyMenu is the field key under which the menu id is logged.
const KeyMenu = "menu"

// Field is one key/value pair attached to an entry.
type Field struct {
	Key   string
	Value any
}

// Entry is a single log record. Subscribers receive entries as
// pubsub.Event[Entry] payloads.
type Entry struct {
	Time     time.Time
	Level    Level
	Category Category
	Message  string
	Fields   []Field
}

// Field returns the value logged under key.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MenuID returns the id of the menu the entry is about, if any.
func (e Entry) MenuID() string {
	if v, ok := e.Field(KeyMenu); ok {
		return fmt.Sprint(v)
	}
	return ""
}

// FormatFields renders the fields as space separated key=value pairs.
func (e Entry) FormatFields() string {
	var b strings.Builder
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", f.Key, f.Value)
	}
	return b.String()
}

// String formats the entry the way it is written to the log file:
//
//	2025-12-06T10:45:00 [ERROR] [menu] message key=value key2=value2
func (e Entry) String() string {
	s := fmt.Sprintf("%s [%s] [%s] %s", e.Time.Format("2006-01-02T15:04:05"), e.Level, e.Category, e.Message)
	if len(e.Fields) > 0 {
		s += " " + e.FormatFields()
	}
	return s
}

// fields pairs up a variadic key/value list. A trailing key without a value
// is kept with the value "<missing>".
func fields(kv []any) []Field {
	if len(kv) == 0 {
		return nil
	}
	out := make([]Field, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		f := Field{Key: fmt.Sprint(kv[i]), Value: "<missing>"}
		if i+1 < len(kv) {
			f.Value = kv[i+1]
		}
		out = append(out, f)
	}
	return out
}

// Logger writes entries at or above its minimum level and publishes them.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
	broker   *pubsub.Broker[Entry]
}

// New returns a logger writing to out.
func New(out io.Writer, minLevel Level) *Logger {
	return &Logger{out: out, minLevel: minLevel, broker: pubsub.NewBroker[Entry](64)}
}

// Subscribe returns a subscription to the entries logged from now on.
func (l *Logger) Subscribe(ctx context.Context) *pubsub.Subscription[Entry] {
	return l.broker.Subscribe(ctx)
}

func (l *Logger) log(level Level, cat Category, msg string, kv []any) {
	if level < l.minLevel {
		return
	}
	entry := Entry{Time: time.Now(), Level: level, Category: cat, Message: msg, Fields: fields(kv)}

	l.mu.Lock()
	_, _ = io.WriteString(l.out, entry.String()+"\n")
	l.mu.Unlock()

	l.broker.Publish(pubsub.LoggedEvent, entry)
}

var current atomic.Pointer[Logger]

// SetDefault installs l as the package logger and returns a function that
// restores the previous one. A nil l turns logging off.
func SetDefault(l *Logger) (restore func()) {
	prev := current.Swap(l)
	return func() { current.Store(prev) }
}

// Open logs to path at debug level. Bubble Tea's own log output is sent to
// the same file. The returned function stops logging and closes the file.
func Open(path string) (func(), error) {
	f, err := tea.LogToFile(path, "compleet")
	if err != nil {
		return nil, err
	}
	restore := SetDefault(New(f, LevelDebug))
	return func() {
		restore()
		_ = f.Close()
	}, nil
}

// Subscribe returns a subscription to the package logger, or nil when
// logging is off.
func Subscribe(ctx context.Context) *pubsub.Subscription[Entry] {
	l := current.Load()
	if l == nil {
		return nil
	}
	return l.Subscribe(ctx)
}

func log(level Level, cat Category, msg string, kv []any) {
	if l := current.Load(); l != nil {
		l.log(level, cat, msg, kv)
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, kv ...any) {
	log(LevelDebug, cat, msg, kv)
}

// Info logs at info level.
func Info(cat Category, msg string, kv ...any) {
	log(LevelInfo, cat, msg, kv)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, kv ...any) {
	log(LevelWarn, cat, msg, kv)
}

// ErrorErr logs err at error level under the "error" key.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	value := "<nil>"
	if err != nil {
		value = err.Error()
	}
	log(LevelError, cat, msg, append(kv, "error", value))
}
