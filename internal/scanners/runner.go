package scanners

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the event log used by the collectors.
type Logger interface {
	LogCommand(command, target string) error
	LogFinding(kind, target, detail string) error
	LogEvent(event string) error
}

// Recorder is the part of the finding store the collectors push into.
type Recorder interface {
	AddTarget(ip, hostname, os string, services []string) error
	QuickFinding(title, severity, target, description, commands, result, fix string) error
	AddScreenshot(filename, description string) error
}

// runFunc executes name with args and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) (string, error)

// execRunner runs a binary directly (no shell). Stderr is forwarded to the
// diagnostic logger at debug level.
func execRunner(logger *logrus.Logger) runFunc {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		cmd := exec.CommandContext(ctx, name, args...)

		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		stderr := logger.WriterLevel(logrus.DebugLevel)
		defer stderr.Close()
		cmd.Stderr = stderr

		logger.WithField("cmd", cmd.Args).Debug("executing")
		if err := cmd.Run(); err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return stdout.String(), fmt.Errorf("%s timed out: %w", name, ctx.Err())
			}
			return stdout.String(), fmt.Errorf("%s failed: %w", name, err)
		}
		return stdout.String(), nil
	}
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
