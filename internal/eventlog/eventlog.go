// Package eventlog keeps the three append-only text streams of a run:
// executed commands, generic events and findings.
package eventlog

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yorozuya-cybersecurity/netrunner/internal/errs"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options controls rotation of the stream files.
type Options struct {
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
}

// DefaultOptions returns the rotation limits used when none are configured.
func DefaultOptions() Options {
	return Options{MaxSize: 10, MaxBackups: 3, MaxAge: 28}
}

// lineFormatter renders "<time> - <LEVEL> - <message>".
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	line := fmt.Sprintf("%s - %s - %s\n", e.Time.Format(timestampFormat), strings.ToUpper(e.Level.String()), e.Message)
	return []byte(line), nil
}

type stream struct {
	mu  sync.Mutex
	out io.WriteCloser
}

// Log is the event sink of one run. Unlike a plain logrus logger, write
// failures are returned to the caller.
type Log struct {
	formatter logrus.Formatter
	commands  *stream
	events    *stream
	findings  *stream
	now       func() time.Time
}

// New opens commands.log, events.log and findings.log under dir.
func New(dir string, opts Options) *Log {
	open := func(name string) *stream {
		return &stream{out: &lumberjack.Logger{
			Filename:   filepath.Join(dir, name),
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
		}}
	}
	return &Log{
		formatter: lineFormatter{},
		commands:  open("commands.log"),
		events:    open("events.log"),
		findings:  open("findings.log"),
		now:       time.Now,
	}
}

// LogCommand records an executed command, optionally tagged with its target.
func (l *Log) LogCommand(command, target string) error {
	msg := command
	if target != "" {
		msg = fmt.Sprintf("TARGET: %s | CMD: %s", target, command)
	}
	return l.write(l.commands, msg)
}

// LogFinding records a security finding.
func (l *Log) LogFinding(kind, target, detail string) error {
	return l.write(l.findings, fmt.Sprintf("%s on %s: %s", kind, target, detail))
}

// LogEvent records a general event.
func (l *Log) LogEvent(event string) error {
	return l.write(l.events, event)
}

// Close closes all three streams.
func (l *Log) Close() error {
	var first error
	for _, s := range []*stream{l.commands, l.events, l.findings} {
		s.mu.Lock()
		if err := s.out.Close(); err != nil && first == nil {
			first = err
		}
		s.mu.Unlock()
	}
	return first
}

func (l *Log) write(s *stream, msg string) error {
	entry := &logrus.Entry{
		Time:    l.now(),
		Level:   logrus.InfoLevel,
		Message: msg,
		Data:    logrus.Fields{},
	}
	line, err := l.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("%w: format log line: %v", errs.ErrCollaboratorUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(line); err != nil {
		return fmt.Errorf("%w: event log: %v", errs.ErrCollaboratorUnavailable, err)
	}
	return nil
}
