package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/netrunner/internal/errs"
)

func TestSafeName(t *testing.T) {
	assert.Equal(t, "http___example.com_a_b", SafeName("http://example.com/a/b"))
	assert.Equal(t, "plain", SafeName("plain"))
	assert.Equal(t, "a_b_c_d", SafeName(`a*b?c|d`))
}

func TestCreateJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.json")

	require.NoError(t, CreateJSON(p, map[string]int{"a": 1}))
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

func TestCreateKeepsExistingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, CreateText(p, "first"))

	err := CreateText(p, "second")
	assert.True(t, errors.Is(err, os.ErrExist))
	err = CreateJSON(p, 2)
	assert.True(t, errors.Is(err, os.ErrExist))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	require.NoError(t, WriteText(p, "replaced"))
	data, err = os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))
}

func TestWriteErrorsCarryPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "out.md")

	err := WriteText(p, "x")
	var we *errs.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, p, we.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = CreateJSON(p, 1)
	require.True(t, errors.As(err, &we))
	assert.Equal(t, p, we.Path)
}
