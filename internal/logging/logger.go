// Package logging provides the printf-style leveled logger used across mosaic.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Logger defines a minimal, printf-style logging contract. Packages depend on
// this interface so tests can substitute a no-op or recording implementation.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

var (
	rootInstance *fileLogger
	rootOnce     sync.Once
)

// fileLogger writes to mosaic-debug.log in the user's home directory and
// mirrors every line to stdout.
type fileLogger struct {
	file      *os.File
	sink      *log.Logger
	level     LogLevel
	component string
	mu        *sync.Mutex
}

func root() *fileLogger {
	rootOnce.Do(func() {
		rootInstance = newFileLogger("", INFO)
	})
	return rootInstance
}

// NewComponentLogger returns the application logger scoped to a component.
func NewComponentLogger(component string) Logger {
	r := root()
	return &fileLogger{
		file:      r.file,
		sink:      r.sink,
		level:     r.level,
		component: component,
		mu:        r.mu,
	}
}

// SetLevel sets the minimum level for the process-wide logger.
func SetLevel(level LogLevel) {
	root().level = level
}

func newFileLogger(component string, level LogLevel) *fileLogger {
	l := &fileLogger{level: level, component: component, mu: &sync.Mutex{}}

	home, err := os.UserHomeDir()
	if err != nil {
		return l
	}
	logPath := filepath.Join(home, "mosaic-debug.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return l
	}
	l.file = file
	l.sink = log.New(file, "", 0)
	return l
}

func (l *fileLogger) log(level LogLevel, format string, args ...any) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	component := l.component
	if component == "" {
		component = "mosaic"
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s [%s] [%s] %s\n", timestamp, levelToString(level), component, message)
	line = Redact(line)

	if l.sink != nil {
		l.sink.Print(line)
	}
	fmt.Print(line)
}

func (l *fileLogger) Debug(format string, args ...any) { l.log(DEBUG, format, args...) }
func (l *fileLogger) Info(format string, args ...any)  { l.log(INFO, format, args...) }
func (l *fileLogger) Warn(format string, args ...any)  { l.log(WARN, format, args...) }
func (l *fileLogger) Error(format string, args ...any) { l.log(ERROR, format, args...) }

func levelToString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

const redactedPlaceholder = "[REDACTED]"

var (
	bearerTokenPattern = regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9\-\._~+/]+=*)`)
	keyValuePattern    = regexp.MustCompile(
		`(?i)((?:"|')?(?:api[_-]?key|appid|token|secret|password)(?:"|')?\s*(?:=|:)\s*)(?:"|')?([^"'\s&,;]+)((?:"|')?)`,
	)
	standaloneSecretPattern = regexp.MustCompile(`(?i)(sk-[A-Za-z0-9]{16,}|ghp_[A-Za-z0-9]{16,})`)
)

// Redact masks credential-looking substrings so API keys never land in logs.
func Redact(line string) string {
	sanitized := bearerTokenPattern.ReplaceAllString(line, "${1}"+redactedPlaceholder)
	sanitized = keyValuePattern.ReplaceAllString(sanitized, "${1}"+redactedPlaceholder+"${3}")
	sanitized = standaloneSecretPattern.ReplaceAllString(sanitized, redactedPlaceholder)
	return sanitized
}
