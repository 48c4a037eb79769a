// Package log provides structured logging for airdesk.
// Lines are written to a debug file (enabled via --debug or AIRDESK_DEBUG)
// and fanned out to subscribers so the console can show them in its log overlay.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/airdesk/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config value ("debug", "info", "warn", "error") to a Level.
// Unknown values fall back to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatAPI     Category = "api"     // Chat backend requests and decoding
	CatStore   Category = "store"   // Conversation state transitions
	CatSeat    Category = "seat"    // Seat overlay and inventory
	CatUI      Category = "ui"      // UI component updates
	CatConfig  Category = "config"  // Configuration loading/saving
	CatDB      Category = "db"      // Transcript history persistence
	CatCache   Category = "cache"   // Render cache operations
	CatWatcher Category = "watcher" // File watcher events
	CatTrace   Category = "trace"   // Tracing provider lifecycle
	CatMock    Category = "mock"    // Mock backend
)

// recentCapacity bounds the in-memory tail kept for the log overlay.
const recentCapacity = 500

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	recent   []string
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the global logger writing to path.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	var initErr error
	once.Do(func() {
		var f *os.File
		f, initErr = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // G304: user-selected debug log path
		if initErr != nil {
			return
		}
		defaultLogger = newLogger(f, f)
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		return nil, fmt.Errorf("logger initialization failed or already attempted")
	}
	return func() {
		if defaultLogger != nil && defaultLogger.file != nil {
			_ = defaultLogger.file.Close()
		}
	}, nil
}

// InitWithTeaLog uses tea.LogToFile for initialization.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	defaultLogger = newLogger(f, f)
	return func() { _ = f.Close() }, nil
}

// InitWriter installs a logger that writes to w. Intended for tests.
func InitWriter(w io.Writer) {
	defaultLogger = newLogger(nil, w)
}

func newLogger(f *os.File, w io.Writer) *Logger {
	return &Logger{
		file:     f,
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

// Recent returns up to n of the most recent log lines, oldest first.
func Recent(n int) []string {
	if defaultLogger == nil || n <= 0 {
		return nil
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	start := max(len(defaultLogger.recent)-n, 0)
	out := make([]string, len(defaultLogger.recent)-start)
	copy(out, defaultLogger.recent[start:])
	return out
}

// format renders one entry:
// 2026-10-15T10:45:00 [ERROR] [api] message key=value key2=value2
func format(now time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", now.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	return b.String()
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	if l == nil {
		return
	}

	l.mu.Lock()
	if !l.enabled || level < l.minLevel {
		l.mu.Unlock()
		return
	}
	entry := format(time.Now(), level, cat, msg, fields)
	if l.writer != nil {
		_, _ = io.WriteString(l.writer, entry+"\n")
	}
	l.recent = append(l.recent, entry)
	if len(l.recent) > recentCapacity {
		l.recent = l.recent[len(l.recent)-recentCapacity:]
	}
	broker := l.broker
	l.mu.Unlock()

	if broker != nil {
		broker.Publish(pubsub.LogLine, entry)
	}
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a new log event listener.
// The listener is automatically cleaned up when the context is cancelled.
func NewListener(ctx context.Context) *LogListener {
	if defaultLogger == nil || defaultLogger.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener[string](ctx, defaultLogger.broker)
}

// Clear drops the in-memory tail. The log file is left untouched.
func Clear() {
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defaultLogger.recent = nil
	defaultLogger.mu.Unlock()
}
