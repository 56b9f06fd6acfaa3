package eventlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/netrunner/internal/errs"
)

func fixedClock() time.Time {
	return time.Date(2025, 9, 11, 13, 17, 22, 0, time.UTC)
}

func TestStreams(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, DefaultOptions())
	l.now = fixedClock

	require.NoError(t, l.LogCommand("nmap -F 10.0.0.5", "10.0.0.5"))
	require.NoError(t, l.LogCommand("whoami", ""))
	require.NoError(t, l.LogEvent("workspace created"))
	require.NoError(t, l.LogFinding("HIGH", "10.0.0.5, 10.0.0.6", "SMB signing disabled"))
	require.NoError(t, l.Close())

	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(data)
	}

	assert.Equal(t,
		"2025-09-11 13:17:22 - INFO - TARGET: 10.0.0.5 | CMD: nmap -F 10.0.0.5\n"+
			"2025-09-11 13:17:22 - INFO - whoami\n",
		read("commands.log"))
	assert.Equal(t, "2025-09-11 13:17:22 - INFO - workspace created\n", read("events.log"))
	assert.Equal(t, "2025-09-11 13:17:22 - INFO - HIGH on 10.0.0.5, 10.0.0.6: SMB signing disabled\n", read("findings.log"))
}

func TestAppends(t *testing.T) {
	dir := t.TempDir()

	first := New(dir, DefaultOptions())
	require.NoError(t, first.LogEvent("one"))
	require.NoError(t, first.Close())

	second := New(dir, DefaultOptions())
	require.NoError(t, second.LogEvent("two"))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(filepath.Join(dir, "events.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "- INFO - one\n")
	assert.Contains(t, string(data), "- INFO - two\n")
}

func TestWriteFailureSurfaces(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	l := New(filepath.Join(blocker, "logs"), DefaultOptions())
	err := l.LogFinding("CRITICAL", "10.0.0.5", "RCE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrCollaboratorUnavailable))
}
