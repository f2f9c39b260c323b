package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Logger is a named logger with level helpers.
type Logger struct {
	name string
	std  *log.Logger
}

// writerHolder keeps the concrete type stored in atomic.Value stable when
// switching between *os.File and in-memory writers.
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug atomic.Bool

	// colorEnabled toggles lipgloss styling of level tags.
	colorEnabled atomic.Bool

	serviceDebug sync.Map // map[string]*atomic.Bool
	loggers      sync.Map // map[string]*Logger
	outputWriter atomic.Value
)

var levelStyles = map[string]lipgloss.Style{
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

var nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))

func init() {
	outputWriter.Store(writerHolder{w: os.Stderr})
}

// ForService returns (and memoizes) the logger for a service.
func ForService(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	current := outputWriter.Load().(writerHolder).w
	std := log.New(current, "", log.LstdFlags|log.Lmicroseconds)
	actual, _ := loggers.LoadOrStore(name, &Logger{name: name, std: std})
	return actual.(*Logger)
}

// SetGlobalDebug enables or disables debug logging globally.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// GlobalDebug returns whether global debug logging is enabled.
func GlobalDebug() bool {
	return globalDebug.Load()
}

// SetColor enables coloured level tags. Only turn this on when the output
// is a terminal.
func SetColor(enabled bool) {
	colorEnabled.Store(enabled)
}

// EnableDebugFor enables debug logging for a single service.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	val, _ := serviceDebug.LoadOrStore(name, &atomic.Bool{})
	val.(*atomic.Bool).Store(true)
}

// DisableDebugFor disables debug logging for a single service.
func DisableDebugFor(name string) {
	if name == "" {
		return
	}
	if val, ok := serviceDebug.Load(name); ok {
		val.(*atomic.Bool).Store(false)
	}
}

// DebugEnabledFor returns whether debug is enabled for the given service,
// either globally or specifically.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if val, ok := serviceDebug.Load(name); ok {
		return val.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput sets the writer for all loggers, existing ones included.
// A nil writer is ignored.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	outputWriter.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

// Name returns the service name of the logger.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) prefix() string {
	p := "[" + l.name + ">]"
	if colorEnabled.Load() {
		return nameStyle.Render(p)
	}
	return p
}

func (l *Logger) output(level, msg string) {
	tag := level
	if colorEnabled.Load() {
		tag = levelStyles[level].Render(level)
	}
	l.std.Println(tag + " " + l.prefix() + " " + msg)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.output(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.output(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.output(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs a debug message if debug is enabled for this logger.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.output(LevelDebug, fmt.Sprintf(format, args...))
}

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)
