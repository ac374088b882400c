package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level controls which messages are emitted
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel converts a config string into a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger emits leveled messages with optional structured fields
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	minLvl           = LevelInfo
)

// SetLevel sets the global minimum level
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLvl = l
}

// SetOutput redirects log output (tests)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

type fieldLogger struct {
	fields map[string]interface{}
}

func (l *fieldLogger) log(lvl Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if lvl < minLvl {
		return
	}

	msg := fmt.Sprintf(format, args...)

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	b.WriteString(levelNames[lvl])
	b.WriteByte(' ')
	b.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}
	b.WriteByte('\n')

	io.WriteString(out, b.String())
}

func (l *fieldLogger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *fieldLogger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *fieldLogger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *fieldLogger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

func (l *fieldLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *fieldLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &fieldLogger{fields: merged}
}

var root = &fieldLogger{}

// Package-level convenience functions using the root logger

func Debug(format string, args ...interface{}) { root.Debug(format, args...) }
func Info(format string, args ...interface{})  { root.Info(format, args...) }
func Warn(format string, args ...interface{})  { root.Warn(format, args...) }
func Error(format string, args ...interface{}) { root.Error(format, args...) }

// WithField returns a logger carrying a single structured field
func WithField(key string, value interface{}) Logger {
	return root.WithField(key, value)
}

// WithFields returns a logger carrying the given structured fields
func WithFields(fields map[string]interface{}) Logger {
	return root.WithFields(fields)
}
