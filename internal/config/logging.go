package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
)

// SessionLogName is the JSON log written next to the artifacts.
const SessionLogName = "session.log"

// SessionLog is a dual-output logger: text to stderr, JSON to a file.
// The file is opened only by Attach, once the output directory exists, so
// a session rejected during validation leaves nothing on disk. Records
// logged before Attach are held in memory and written first.
type SessionLog struct {
	Logger *slog.Logger

	mu   sync.Mutex
	buf  bytes.Buffer
	file *os.File
}

// NewSessionLog creates the logger. The console level is separate so log
// lines stay out of the interactive prompts unless asked for. Every record
// carries a per-run session id.
func NewSessionLog(stderr io.Writer, level, consoleLevel slog.Level) *SessionLog {
	s := &SessionLog{}
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: consoleLevel})
	fileHandler := slog.NewJSONHandler(s, &slog.HandlerOptions{Level: level})
	s.Logger = withSession(slog.New(slogmulti.Fanout(stderrHandler, fileHandler)))
	return s
}

// Write implements io.Writer for the JSON handler.
func (s *SessionLog) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return s.buf.Write(p)
	}
	return s.file.Write(p)
}

// Attach opens path for appending and flushes the held records into it.
// Later calls are no-ops.
func (s *SessionLog) Attach(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := s.buf.WriteTo(file); err != nil {
		_ = file.Close()
		return err
	}
	s.file = file
	return nil
}

// Attached reports whether the log file is open.
func (s *SessionLog) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// Close closes the log file. Records held for a file that was never
// attached are dropped.
func (s *SessionLog) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Reset()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// SetupLoggerWithWriters creates a logger with custom writers (for testing).
func SetupLoggerWithWriters(stderr, file io.Writer, level slog.Level) *slog.Logger {
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return withSession(slog.New(slogmulti.Fanout(stderrHandler, fileHandler)))
}

func withSession(logger *slog.Logger) *slog.Logger {
	return logger.With("session", uuid.NewString())
}
