package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Level is the closed set of severities a finding can be ranked by.
// Anything that is not one of the four canonical names is LevelOther.
type Level int

const (
	LevelCritical Level = iota
	LevelHigh
	LevelMedium
	LevelLow
	LevelOther
)

// KnownLevels lists the canonical levels in report order.
var KnownLevels = []Level{LevelCritical, LevelHigh, LevelMedium, LevelLow}

func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelHigh:
		return "HIGH"
	case LevelMedium:
		return "MEDIUM"
	case LevelLow:
		return "LOW"
	default:
		return "OTHER"
	}
}

// ParseLevel maps a free-form severity onto a Level, case-insensitively.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return LevelCritical
	case "HIGH":
		return LevelHigh
	case "MEDIUM":
		return LevelMedium
	case "LOW":
		return LevelLow
	default:
		return LevelOther
	}
}

// Finding is one documented vulnerability. It is never modified once stored.
type Finding struct {
	Title           string    `json:"title"`
	Severity        string    `json:"severity"`
	AffectedSystems []string  `json:"affected_systems"`
	Description     string    `json:"description"`
	Impact          string    `json:"impact"`
	ProofOfConcept  string    `json:"proof_of_concept"`
	Remediation     string    `json:"remediation"`
	CVSS            Score     `json:"cvss,omitzero"`
	CVE             string    `json:"cve,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Score is a CVSS score as it was supplied: either a JSON number such as
// 9.8 or free text such as "9.8 (AV:N/AC:L)". Numbers keep their original
// spelling and are written back as numbers.
type Score struct {
	Value   string
	Numeric bool
}

// TextScore wraps a textual score.
func TextScore(s string) Score {
	return Score{Value: s}
}

func (s Score) String() string { return s.Value }

func (s Score) IsZero() bool { return s.Value == "" }

func (s Score) MarshalJSON() ([]byte, error) {
	if s.Numeric {
		return []byte(s.Value), nil
	}
	return json.Marshal(s.Value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = Score{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Score{Value: text}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cvss must be a number or a string: %w", err)
	}
	*s = Score{Value: n.String(), Numeric: true}
	return nil
}

// Level returns the ranked severity of the finding.
func (f Finding) Level() Level {
	return ParseLevel(f.Severity)
}

// Target is one system under test.
type Target struct {
	IP       string   `json:"ip"`
	Hostname string   `json:"hostname"`
	OS       string   `json:"os"`
	Services []string `json:"services"`
}

// Credential is a discovered login. The password is kept in clear text for the report.
type Credential struct {
	System   string `json:"system"`
	Username string `json:"username"`
	Password string `json:"password"`
	Service  string `json:"service"`
	Notes    string `json:"notes"`
}

// Screenshot references an image saved in the workspace.
type Screenshot struct {
	Filename    string    `json:"filename"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot is the serialized form of one run's collections.
type Snapshot struct {
	Session     string       `json:"session,omitempty"`
	Findings    []Finding    `json:"findings"`
	Targets     []Target     `json:"targets"`
	Credentials []Credential `json:"credentials"`
	Screenshots []Screenshot `json:"screenshots"`
}

// LoadSnapshot reads a snapshot written by report generation.
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return snap, nil
}
