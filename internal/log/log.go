// Package log is hilite's debug log.
//
// An entry is one line: timestamp, level, category, message and key=value
// fields. Values holding blanks, quotes or '=' are quoted so patterns and
// paths stay readable. Every entry is also published on a broker for the
// pager's log overlay. Nothing is written until one of the Init functions
// runs; cmd does that for --debug or HILITE_DEBUG.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/hilite/internal/pubsub"
)

// Level is an entry's severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel accepts a level name in any case ("debug", "WARN").
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelDebug, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// Category names the part of hilite an entry comes from.
type Category string

const (
	CatStore   Category = "store"  // line normalisation and scrolling
	CatSource  Category = "source" // source files
	CatOutput  Category = "output" // debugger output
	CatRender  Category = "render"
	CatSearch  Category = "search"
	CatWatcher Category = "watcher"
	CatCache   Category = "cache"
	CatConfig  Category = "config"
	CatUI      Category = "ui" // pager
	CatTrace   Category = "trace"
)

type logger struct {
	mu       sync.Mutex
	out      io.Writer
	closer   io.Closer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var current *logger

// install replaces the active logger. The returned func closes c, if any.
func install(w io.Writer, c io.Closer) func() {
	l := &logger{
		out:      w,
		closer:   c,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
	current = l
	return func() {
		if l.closer != nil {
			_ = l.closer.Close()
		}
	}
}

// Init appends the log to the file at path.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // user-chosen debug log path
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	return install(f, f), nil
}

// InitWithTeaLog opens the log through tea.LogToFile, so Bubble Tea's own
// messages land in the same file.
func InitWithTeaLog(path, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	return install(f, f), nil
}

// InitWriter sends the log to w. cmd uses it for HILITE_LOG=-.
func InitWriter(w io.Writer) {
	install(w, nil)
}

// SetEnabled pauses or resumes logging.
func SetEnabled(enabled bool) {
	if l := current; l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := current; l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }

func Info(cat Category, msg string, fields ...any) { write(LevelInfo, cat, msg, fields) }

func Warn(cat Category, msg string, fields ...any) { write(LevelWarn, cat, msg, fields) }

func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err as the trailing "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	write(LevelError, cat, msg, append(fields, "error", err))
}

func write(level Level, cat Category, msg string, fields []any) {
	l := current
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	entry := format(time.Now(), level, cat, msg, fields)
	if l.out != nil {
		_, _ = io.WriteString(l.out, entry)
	}
	l.broker.Publish(pubsub.LoggedEvent, entry)
}

// format renders one entry:
//
//	2026-03-02T10:45:00.120 [DEBUG] [search] match pattern="int main" row=4 col=0
func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	b.WriteString(ts.Format("2006-01-02T15:04:05.000"))
	fmt.Fprintf(&b, " [%s] [%s] %s", level, cat, msg)
	for i := 0; i < len(fields); i += 2 {
		b.WriteByte(' ')
		fmt.Fprint(&b, fields[i])
		b.WriteByte('=')
		if i+1 == len(fields) {
			b.WriteString("<missing>")
			break
		}
		b.WriteString(value(fields[i+1]))
	}
	b.WriteByte('\n')
	return b.String()
}

func value(v any) string {
	var s string
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case error:
		s = v.Error()
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// LogListener receives entries as pubsub.LoggedEvent payloads.
type LogListener = pubsub.ContinuousListener[string]

// NewListener subscribes to entries until ctx ends. It returns nil when
// logging is off.
func NewListener(ctx context.Context) *LogListener {
	if current == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, current.broker)
}
