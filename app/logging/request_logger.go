package logging

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RequestLogger records the requests served for one blog.
type RequestLogger interface {
	Start() error
	Stop() error
	Log(r *http.Request, status int, size int64, at time.Time)
}

// Factory builds a RequestLogger writing below dir.
type Factory func(dir string) RequestLogger

const (
	CombinedLoggerName = "combined"
	NoopLoggerName     = "noop"
	DefaultLoggerName  = CombinedLoggerName
)

// Loggers maps logger property values to implementations.
var Loggers = map[string]Factory{
	CombinedLoggerName: func(dir string) RequestLogger { return NewCombinedLogger(dir) },
	NoopLoggerName:     func(string) RequestLogger { return NoopLogger{} },
}

// New resolves name, falling back to the combined format logger.
func New(name, dir string, log *logrus.Logger) RequestLogger {
	factory, ok := Loggers[name]
	if !ok {
		log.WithField("logger", name).Error("unknown request logger, using default")
		factory = Loggers[DefaultLoggerName]
	}
	return factory(dir)
}

// CombinedLogger writes Apache combined log format lines to a rotated access.log.
type CombinedLogger struct {
	dir string
	mu  sync.Mutex
	out io.WriteCloser
}

func NewCombinedLogger(dir string) *CombinedLogger {
	return &CombinedLogger{dir: dir}
}

func (l *CombinedLogger) Start() error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = &lumberjack.Logger{
		Filename:   filepath.Join(l.dir, "access.log"),
		LocalTime:  true,
		Compress:   true,
		MaxSize:    100,
		MaxAge:     30,
		MaxBackups: 7,
	}
	return nil
}

func (l *CombinedLogger) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	return err
}

// Log drops lines written while the logger is stopped.
func (l *CombinedLogger) Log(r *http.Request, status int, size int64, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return
	}
	fmt.Fprintln(l.out, FormatCombined(r, status, size, at))
}

// FormatCombined renders one request in Apache combined log format.
func FormatCombined(r *http.Request, status int, size int64, at time.Time) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	bytes := "-"
	if size > 0 {
		bytes = fmt.Sprintf("%d", size)
	}
	return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %s "%s" "%s"`,
		orDash(host),
		at.Format("02/Jan/2006:15:04:05 -0700"),
		r.Method, r.URL.RequestURI(), r.Proto,
		status, bytes,
		orDash(r.Referer()), orDash(r.UserAgent()),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Start() error                              { return nil }
func (NoopLogger) Stop() error                               { return nil }
func (NoopLogger) Log(*http.Request, int, int64, time.Time) {}
