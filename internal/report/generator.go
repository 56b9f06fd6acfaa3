package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yorozuya-cybersecurity/netrunner/internal/errs"
	"github.com/yorozuya-cybersecurity/netrunner/internal/schema"
	"github.com/yorozuya-cybersecurity/netrunner/pkg/utils"
)

// ---------- Public API ----------

const maxNameAttempts = 100

// Source is anything that can hand out a consistent copy of a run's records.
type Source interface {
	Snapshot() schema.Snapshot
}

// Options are the caller-supplied parts of a full report.
type Options struct {
	ClientName    string
	TestType      string
	Author        string
	InScope       []string
	OutScope      []string
	StartDate     string
	EndDate       string
	CustomSummary string
	ToolsUsed     []string
}

// Renderer turns a snapshot into report sections. It never mutates the snapshot.
type Renderer struct {
	snap schema.Snapshot
	now  func() time.Time
}

func NewRenderer(snap schema.Snapshot) *Renderer {
	return &Renderer{snap: snap, now: time.Now}
}

// WithClock replaces the wall clock used for dates and file names.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// GenerateFullReport renders src into reportsDir and returns the report path.
func GenerateFullReport(src Source, reportsDir string, opts Options) (string, error) {
	return NewRenderer(src.Snapshot()).WriteFullReport(reportsDir, opts)
}

// FullReport assembles every section in report order.
func (r *Renderer) FullReport(opts Options) string {
	opts = withDefaults(opts)

	var b strings.Builder
	b.WriteString("# PENETRATION TEST REPORT\n\n")
	fmt.Fprintf(&b, "**Client:** %s\n", opts.ClientName)
	fmt.Fprintf(&b, "**Assessment Type:** %s\n", opts.TestType)
	fmt.Fprintf(&b, "**Report Date:** %s\n", r.now().Format(displayDate))
	fmt.Fprintf(&b, "**Prepared By:** %s\n", opts.Author)
	b.WriteString(`
---

## TABLE OF CONTENTS

1. Executive Summary
2. Scope and Methodology
3. Technical Findings
4. Conclusion
5. Appendices

---

`)
	b.WriteString(r.ExecutiveSummary(opts.CustomSummary) + sectionRule)
	b.WriteString(r.ScopeSection(opts.InScope, opts.OutScope, opts.StartDate, opts.EndDate) + sectionRule)
	b.WriteString(r.FindingsSection() + sectionRule)
	b.WriteString(r.Conclusion() + sectionRule)
	b.WriteString(r.Appendix(opts.ToolsUsed))
	return b.String()
}

// WriteFullReport writes the Markdown report and the JSON snapshot, both
// stamped with the same time. Existing files are never overwritten: a
// collision adds a _2, _3, ... suffix to both names. Either write failing
// fails the call.
func (r *Renderer) WriteFullReport(reportsDir string, opts Options) (string, error) {
	if reportsDir == "" {
		return "", fmt.Errorf("%w: no reports directory", errs.ErrCollaboratorUnavailable)
	}

	body := r.FullReport(opts)
	base := r.now().Format("20060102_150405")
	for n := 1; n <= maxNameAttempts; n++ {
		stamp := base
		if n > 1 {
			stamp = fmt.Sprintf("%s_%d", base, n)
		}
		reportPath := filepath.Join(reportsDir, fmt.Sprintf("pentest_report_%s.md", stamp))
		snapshotPath := SnapshotPath(reportPath)

		err := utils.CreateText(reportPath, body)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		err = utils.CreateJSON(snapshotPath, r.snap)
		if errors.Is(err, os.ErrExist) {
			// orphaned snapshot from an earlier run; keep it and move on
			_ = os.Remove(reportPath)
			continue
		}
		if err != nil {
			return "", err
		}
		return reportPath, nil
	}
	return "", &errs.WriteError{
		Path: filepath.Join(reportsDir, "pentest_report_"+base+".md"),
		Err:  fmt.Errorf("no free file name after %d attempts", maxNameAttempts),
	}
}

// SnapshotPath returns the snapshot written alongside a report.
func SnapshotPath(reportPath string) string {
	dir, name := filepath.Split(reportPath)
	name = strings.TrimSuffix(strings.TrimPrefix(name, "pentest_report_"), ".md")
	return filepath.Join(dir, "findings_"+name+".json")
}

// ---------- helpers ----------

func withDefaults(opts Options) Options {
	opts.ClientName = emptyFallback(opts.ClientName, "Client")
	opts.TestType = emptyFallback(opts.TestType, "Penetration Test")
	opts.Author = emptyFallback(opts.Author, "eJPT Certified Tester")
	if len(opts.InScope) == 0 {
		opts.InScope = []string{"Target network and systems as specified"}
	}
	if len(opts.OutScope) == 0 {
		opts.OutScope = []string{"Physical security testing", "Social engineering", "Denial of Service attacks"}
	}
	return opts
}

func emptyFallback(s, fb string) string {
	if strings.TrimSpace(s) == "" {
		return fb
	}
	return s
}
