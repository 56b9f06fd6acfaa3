package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"CRITICAL", LevelCritical},
		{"critical", LevelCritical},
		{" High ", LevelHigh},
		{"Medium", LevelMedium},
		{"low", LevelLow},
		{"info", LevelOther},
		{"", LevelOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	assert.Less(t, int(LevelCritical), int(LevelHigh))
	assert.Less(t, int(LevelHigh), int(LevelMedium))
	assert.Less(t, int(LevelMedium), int(LevelLow))
	assert.Less(t, int(LevelLow), int(LevelOther))
	assert.Equal(t, "OTHER", Level(42).String())
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSnapshot(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		p := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(p, []byte("{"), 0o644))
		_, err := LoadSnapshot(p)
		require.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		p := filepath.Join(dir, "ok.json")
		body := `{"findings":[{"title":"SQLi","severity":"HIGH","affected_systems":["10.0.0.1"]}],
"targets":[{"ip":"10.0.0.1","hostname":"web","os":"Linux","services":["80/tcp open http"]}],
"credentials":[],"screenshots":[]}`
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

		snap, err := LoadSnapshot(p)
		require.NoError(t, err)
		require.Len(t, snap.Findings, 1)
		assert.Equal(t, LevelHigh, snap.Findings[0].Level())
		assert.Equal(t, []string{"80/tcp open http"}, snap.Targets[0].Services)
	})
}

func TestLoadSnapshotCVSS(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cvss.json")
	body := `{"findings":[
{"title":"numeric","severity":"HIGH","cvss":9.8},
{"title":"text","severity":"HIGH","cvss":"7.5 (AV:N)"},
{"title":"none","severity":"LOW"}]}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	snap, err := LoadSnapshot(p)
	require.NoError(t, err)
	require.Len(t, snap.Findings, 3)
	assert.Equal(t, Score{Value: "9.8", Numeric: true}, snap.Findings[0].CVSS)
	assert.Equal(t, TextScore("7.5 (AV:N)"), snap.Findings[1].CVSS)
	assert.True(t, snap.Findings[2].CVSS.IsZero())

	out, err := json.Marshal(snap.Findings)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"cvss":9.8`)
	assert.Contains(t, string(out), `"cvss":"7.5 (AV:N)"`)
	assert.Equal(t, 2, strings.Count(string(out), `"cvss"`))
}

func TestScoreRejectsOtherKinds(t *testing.T) {
	var s Score
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
	assert.Error(t, json.Unmarshal([]byte(`[9.8]`), &s))
}
