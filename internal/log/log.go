// Package log writes leveled, categorized lines for packsched:
//
//	2026-08-17T09:30:00 [INFO] [roll] Student enrolled course=CSC216-001 student=zking
//
// Nothing is written until Init or InitWriter is called, which the CLI does
// for --debug or PACKSCHED_DEBUG. Every line is also published on a broker so
// `packsched watch --logs` can tail it.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zjrosen/packscheduler/internal/pubsub"
)

// Level represents log severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel accepts a level name in any case, e.g. "warn".
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(i), nil
		}
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", name)
}

// Category groups related log messages.
type Category string

const (
	CatCatalog      Category = "catalog"      // Course catalog loads and edits
	CatDirectory    Category = "directory"    // Student/faculty directory operations
	CatRoll         Category = "roll"         // Roster and waitlist transitions
	CatSchedule     Category = "schedule"     // Schedule adds, drops, resets
	CatRegistration Category = "registration" // Registration manager operations
	CatAuth         Category = "auth"         // Login, logout, password hashing
	CatIO           Category = "io"           // Record file reading/writing
	CatDB           Category = "db"           // Term store
	CatConfig       Category = "config"
	CatCache        Category = "cache"
	CatWatcher      Category = "watcher"
	CatTrace        Category = "trace"
	CatExport       Category = "export"
)

const timeLayout = "2006-01-02T15:04:05"

// Logger writes entries to one writer and republishes them.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	closer   io.Closer
	enabled  atomic.Bool
	minLevel atomic.Int32
	broker   *pubsub.Broker[string]
}

func newLogger(out io.Writer, closer io.Closer) *Logger {
	l := &Logger{out: out, closer: closer, broker: pubsub.NewBroker[string]()}
	l.enabled.Store(true)
	return l
}

var (
	current   atomic.Pointer[Logger]
	installMu sync.Mutex
)

// install swaps in l, closing whatever file the previous logger held.
func install(l *Logger) {
	installMu.Lock()
	defer installMu.Unlock()
	if prev := current.Swap(l); prev != nil {
		prev.close()
	}
}

// Init appends to the file at path. The returned cleanup closes the file and
// turns logging off again.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // G304: path is the user's debug log
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := newLogger(f, f)
	install(l)
	return func() {
		installMu.Lock()
		defer installMu.Unlock()
		if current.CompareAndSwap(l, nil) {
			l.close()
		}
	}, nil
}

// InitWriter installs a logger that writes to w instead of a file.
func InitWriter(w io.Writer) {
	install(newLogger(w, nil))
}

// Reset turns logging off.
func Reset() {
	install(nil)
}

func (l *Logger) close() {
	l.broker.Close()
	if l.closer != nil {
		_ = l.closer.Close()
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current.Load(); l != nil {
		l.enabled.Store(enabled)
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := current.Load(); l != nil {
		l.minLevel.Store(int32(level))
	}
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }

func Info(cat Category, msg string, fields ...any) { write(LevelInfo, cat, msg, fields) }

func Warn(cat Category, msg string, fields ...any) { write(LevelWarn, cat, msg, fields) }

func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	write(LevelError, cat, msg, append(fields, "error", err))
}

func write(level Level, cat Category, msg string, fields []any) {
	l := current.Load()
	if l == nil || !l.enabled.Load() || int32(level) < l.minLevel.Load() {
		return
	}

	entry := format(time.Now(), level, cat, msg, fields)

	l.mu.Lock()
	_, _ = io.WriteString(l.out, entry)
	l.mu.Unlock()

	l.broker.Publish(pubsub.LoggedEvent, entry)
}

// format renders one line. Fields are key/value pairs; a trailing key
// without a value is shown as key=<missing>.
func format(now time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	b.WriteString(now.Format(timeLayout))
	fmt.Fprintf(&b, " [%s] [%s] %s", level, cat, msg)

	for i := 0; i < len(fields); i += 2 {
		b.WriteByte(' ')
		fmt.Fprint(&b, fields[i])
		b.WriteByte('=')
		if i+1 == len(fields) {
			b.WriteString("<missing>")
			break
		}
		b.WriteString(formatValue(fields[i+1]))
	}
	b.WriteByte('\n')
	return b.String()
}

// formatValue quotes values with spaces so lines stay splittable on spaces.
func formatValue(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case error:
		s = val.Error()
	case string:
		s = val
	default:
		s = fmt.Sprint(val)
	}
	if strings.ContainsAny(s, " \t\n\"") {
		return strconv.Quote(s)
	}
	return s
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener receives published log lines.
type LogListener = pubsub.Listener[string]

// NewListener subscribes to log lines until ctx ends. It returns nil when
// logging is off.
func NewListener(ctx context.Context) *LogListener {
	l := current.Load()
	if l == nil {
		return nil
	}
	return pubsub.NewListener[string](ctx, l.broker)
}
