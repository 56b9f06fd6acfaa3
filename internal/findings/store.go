// Package findings accumulates the findings, targets, credentials and
// screenshots collected during one assessment session.
package findings

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yorozuya-cybersecurity/netrunner/internal/errs"
	"github.com/yorozuya-cybersecurity/netrunner/internal/schema"
)

const unknown = "Unknown"

// FindingLogger receives one event per recorded finding.
type FindingLogger interface {
	LogFinding(kind, target, detail string) error
}

// FindingInput carries the fields of a new finding. CVSS and CVE are optional.
type FindingInput struct {
	Title           string
	Severity        string
	AffectedSystems []string
	Description     string
	Impact          string
	ProofOfConcept  string
	Remediation     string
	CVSS            string
	CVE             string
}

// Store is append-only. The in-memory record is the source of truth: a
// finding is kept even when its log event cannot be written.
type Store struct {
	mu          sync.RWMutex
	log         FindingLogger
	session     string
	findings    []schema.Finding
	targets     []schema.Target
	credentials []schema.Credential
	screenshots []schema.Screenshot
	now         func() time.Time
}

// New returns an empty store reporting findings to log.
func New(log FindingLogger, session string) *Store {
	return &Store{
		log:     log,
		session: session,
		now:     time.Now,
	}
}

// FromSnapshot rebuilds a store from a previously serialized run. No log
// events are emitted for the loaded findings. Severities are upper-cased as
// AddFinding would.
func FromSnapshot(log FindingLogger, snap schema.Snapshot) *Store {
	s := New(log, snap.Session)
	for _, f := range snap.Findings {
		f.Severity = strings.ToUpper(f.Severity)
		f.AffectedSystems = append([]string{}, f.AffectedSystems...)
		s.findings = append(s.findings, f)
	}
	s.targets = append(s.targets, snap.Targets...)
	s.credentials = append(s.credentials, snap.Credentials...)
	s.screenshots = append(s.screenshots, snap.Screenshots...)
	return s
}

// AddFinding records a finding and then emits its log event.
func (s *Store) AddFinding(in FindingInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return errs.Missing("title")
	}

	f := schema.Finding{
		Title:           in.Title,
		Severity:        strings.ToUpper(in.Severity),
		AffectedSystems: append([]string(nil), in.AffectedSystems...),
		Description:     in.Description,
		Impact:          in.Impact,
		ProofOfConcept:  in.ProofOfConcept,
		Remediation:     in.Remediation,
		CVSS:            schema.TextScore(in.CVSS),
		CVE:             in.CVE,
		CreatedAt:       s.now(),
	}
	if f.AffectedSystems == nil {
		f.AffectedSystems = []string{}
	}

	s.mu.Lock()
	s.findings = append(s.findings, f)
	s.mu.Unlock()

	if s.log == nil {
		return fmt.Errorf("%w: no event log for finding %q", errs.ErrCollaboratorUnavailable, f.Title)
	}
	if err := s.log.LogFinding(f.Severity, strings.Join(f.AffectedSystems, ", "), f.Title); err != nil {
		return fmt.Errorf("finding %q recorded but not logged: %w", f.Title, err)
	}
	return nil
}

// AddTarget records a system under test. Targets are not deduplicated by IP.
func (s *Store) AddTarget(ip, hostname, os string, services []string) error {
	if strings.TrimSpace(ip) == "" {
		return errs.Missing("ip")
	}
	t := schema.Target{
		IP:       ip,
		Hostname: orUnknown(hostname),
		OS:       orUnknown(os),
		Services: append([]string{}, services...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = append(s.targets, t)
	return nil
}

// AddCredential records a discovered login.
func (s *Store) AddCredential(system, username, password, service, notes string) error {
	if strings.TrimSpace(system) == "" {
		return errs.Missing("system")
	}
	if strings.TrimSpace(username) == "" {
		return errs.Missing("username")
	}
	c := schema.Credential{
		System:   system,
		Username: username,
		Password: password,
		Service:  orUnknown(service),
		Notes:    notes,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = append(s.credentials, c)
	return nil
}

// AddScreenshot records a reference to an image in the workspace.
func (s *Store) AddScreenshot(filename, description string) error {
	if strings.TrimSpace(filename) == "" {
		return errs.Missing("filename")
	}
	shot := schema.Screenshot{
		Filename:    filename,
		Description: description,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenshots = append(s.screenshots, shot)
	return nil
}

// QuickFinding records a finding against a single target, building the
// proof of concept and a generic impact statement from the inputs.
func (s *Store) QuickFinding(title, severity, target, description, commands, result, fix string) error {
	poc := fmt.Sprintf("Steps to Reproduce:\n\n%s\n\nCommands Executed:\n%s\n\nResult:\n%s\n", description, commands, result)
	impact := fmt.Sprintf("Successful exploitation of this %s-severity vulnerability could lead to unauthorized access and potential system compromise.", strings.ToLower(severity))

	return s.AddFinding(FindingInput{
		Title:           title,
		Severity:        severity,
		AffectedSystems: []string{target},
		Description:     description,
		Impact:          impact,
		ProofOfConcept:  poc,
		Remediation:     fix,
	})
}

// Snapshot returns a copy of the collections that later additions cannot alter.
func (s *Store) Snapshot() schema.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := schema.Snapshot{
		Session:     s.session,
		Findings:    make([]schema.Finding, len(s.findings)),
		Targets:     make([]schema.Target, len(s.targets)),
		Credentials: append([]schema.Credential{}, s.credentials...),
		Screenshots: append([]schema.Screenshot{}, s.screenshots...),
	}
	for i, f := range s.findings {
		f.AffectedSystems = append([]string{}, f.AffectedSystems...)
		snap.Findings[i] = f
	}
	for i, t := range s.targets {
		t.Services = append([]string{}, t.Services...)
		snap.Targets[i] = t
	}
	return snap
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
