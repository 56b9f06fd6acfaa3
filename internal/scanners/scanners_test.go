package scanners

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/netrunner/internal/findings"
	"github.com/yorozuya-cybersecurity/netrunner/internal/workspace"
)

const fullScanOutput = `Starting Nmap 7.94 ( https://nmap.org ) at 2025-09-11 13:17 UTC
Nmap scan report for metasploitable.lab (10.0.0.5)
Host is up (0.00041s latency).
Not shown: 65530 closed tcp ports (reset)
PORT     STATE SERVICE     VERSION
21/tcp   open  ftp         vsftpd 2.3.4
22/tcp   open  ssh         OpenSSH 4.7p1 Debian 8ubuntu1 (protocol 2.0)
80/tcp   open  http        Apache httpd 2.2.8 ((Ubuntu) DAV/2)
445/tcp  open  netbios-ssn Samba smbd 3.0.20-Debian (workgroup: WORKGROUP)
3306/tcp open  mysql       MySQL 5.0.51a-3ubuntu5
5432/tcp filtered postgresql
Service Info: Host: metasploitable.localdomain; OSs: Unix, Linux; CPE: cpe:/o:linux:linux_kernel
OS details: Linux 2.6.9 - 2.6.33
`

type recordingLog struct {
	commands []string
	findings []string
	events   []string
	err      error
}

func (l *recordingLog) LogCommand(command, target string) error {
	l.commands = append(l.commands, target+"|"+command)
	return l.err
}

func (l *recordingLog) LogFinding(kind, target, detail string) error {
	l.findings = append(l.findings, fmt.Sprintf("%s on %s: %s", kind, target, detail))
	return l.err
}

func (l *recordingLog) LogEvent(event string) error {
	l.events = append(l.events, event)
	return l.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(filepath.Join(t.TempDir(), "ws"))
	require.NoError(t, err)
	return ws
}

func TestParseHost(t *testing.T) {
	h := ParseHost(fullScanOutput, "10.0.0.5")
	assert.Equal(t, "metasploitable.lab", h.Hostname)
	assert.Equal(t, "Linux 2.6.9 - 2.6.33", h.OS)
	assert.Equal(t, []string{
		"21/tcp open ftp vsftpd 2.3.4",
		"22/tcp open ssh OpenSSH 4.7p1 Debian 8ubuntu1 (protocol 2.0)",
		"80/tcp open http Apache httpd 2.2.8 ((Ubuntu) DAV/2)",
		"445/tcp open netbios-ssn Samba smbd 3.0.20-Debian (workgroup: WORKGROUP)",
		"3306/tcp open mysql MySQL 5.0.51a-3ubuntu5",
	}, h.Services)

	bare := ParseHost("Nmap scan report for 10.0.0.9\n22/tcp open ssh\nService Info: OS: Windows; CPE: cpe:/o:microsoft:windows\n", "10.0.0.9")
	assert.Empty(t, bare.Hostname)
	assert.Equal(t, "Windows", bare.OS)
}

func TestAnalyzeOutput(t *testing.T) {
	vectors := AnalyzeOutput(fullScanOutput, "10.0.0.5")
	var services []string
	for _, v := range vectors {
		services = append(services, v.Service+":"+v.Priority)
	}
	assert.Equal(t, []string{"FTP:HIGH", "SSH:MEDIUM", "WEB:CRITICAL", "SMB:CRITICAL", "MYSQL:HIGH"}, services)
	assert.Contains(t, vectors[2].Commands, "nikto -h http://10.0.0.5")

	tls := AnalyzeOutput("443/tcp open https\n", "10.0.0.6")
	require.Len(t, tls, 1)
	assert.Equal(t, "443", tls[0].Port)
	assert.Contains(t, tls[0].Commands, "curl https://10.0.0.6/robots.txt")

	assert.Empty(t, AnalyzeOutput("", "10.0.0.7"))
}

func TestNmapFullScan(t *testing.T) {
	ws := newWorkspace(t)
	log := &recordingLog{}
	store := findings.New(log, "")
	n := NewNmap("nmap", time.Minute, ws, log, store, quietLogger())

	var gotArgs []string
	n.run = func(ctx context.Context, name string, args ...string) (string, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		gotArgs = args
		return fullScanOutput, nil
	}

	res, err := n.FullScan(context.Background(), "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, ws.ScanFile("10.0.0.5", "full"), res.File)
	assert.Equal(t, []string{"-sC", "-sV", "-p-", "--min-rate=1000", "-oN", res.File, "10.0.0.5"}, gotArgs)
	assert.Len(t, res.Vectors, 5)

	require.Len(t, log.commands, 1)
	assert.Equal(t, "10.0.0.5|nmap -sC -sV -p- --min-rate=1000 -oN "+res.File+" 10.0.0.5", log.commands[0])

	targets := store.Snapshot().Targets
	require.Len(t, targets, 1)
	assert.Equal(t, "metasploitable.lab", targets[0].Hostname)
	assert.Len(t, targets[0].Services, 5)
}

func TestNmapQuickScanFailure(t *testing.T) {
	ws := newWorkspace(t)
	log := &recordingLog{}
	store := findings.New(log, "")
	n := NewNmap("nmap", time.Minute, ws, log, store, quietLogger())
	n.run = func(context.Context, string, ...string) (string, error) {
		return "", errors.New("nmap failed: exit status 1")
	}

	_, err := n.QuickScan(context.Background(), "10.0.0.5")
	require.Error(t, err)
	assert.Len(t, log.commands, 1)
	assert.Empty(t, store.Snapshot().Targets)
}

func TestNmapCommandLogFailure(t *testing.T) {
	log := &recordingLog{err: errors.New("read-only")}
	n := NewNmap("nmap", time.Minute, newWorkspace(t), log, findings.New(log, ""), quietLogger())
	n.run = func(context.Context, string, ...string) (string, error) {
		t.Fatal("must not run when the command cannot be logged")
		return "", nil
	}

	_, err := n.QuickScan(context.Background(), "10.0.0.5")
	assert.Error(t, err)
}

func TestParseGobuster(t *testing.T) {
	out := `/.htaccess            (Status: 403) [Size: 277]
/admin                (Status: 301) [Size: 310] [--> http://10.0.0.5/admin/]
/index.php            (Status: 200) [Size: 1024]
Progress: 4614 / 4615 (99.98%)
`
	assert.Equal(t, []DirEntry{
		{Path: "/.htaccess", Status: 403},
		{Path: "/admin", Status: 301},
		{Path: "/index.php", Status: 200},
	}, ParseGobuster(out))
}

func TestGobusterDirectoryEnum(t *testing.T) {
	ws := newWorkspace(t)
	log := &recordingLog{}
	g := NewGobuster("gobuster", "php,txt", time.Minute, ws, log, quietLogger())
	g.run = func(_ context.Context, _ string, args ...string) (string, error) {
		out := args[len(args)-1]
		return "noise", os.WriteFile(out, []byte("/admin (Status: 301) [Size: 310]\n"), 0o644)
	}

	entries, file, err := g.DirectoryEnum(context.Background(), "http://10.0.0.5:8080", "words.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Scans, "gobuster_10.0.0.5_8080.txt"), file)
	assert.Equal(t, []DirEntry{{Path: "/admin", Status: 301}}, entries)
	require.Len(t, log.commands, 1)
	assert.Contains(t, log.commands[0], "gobuster dir -u http://10.0.0.5:8080 -w words.txt -x php,txt -o ")

	_, _, err = g.DirectoryEnum(context.Background(), "not a url", "words.txt")
	assert.Error(t, err)
}

func TestWebHunterQuickCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprint(w, "User-agent: *\nDisallow: /admin\n")
		case "/.env":
			fmt.Fprint(w, "DB_PASSWORD=hunter2\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ws := newWorkspace(t)
	log := &recordingLog{}
	store := findings.New(log, "")
	h := NewWebHunter(2*time.Second, true, ws, log, store, quietLogger())

	results, err := h.QuickCheck(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.Len(t, results, len(DefaultChecks))

	var found []string
	for _, r := range results {
		if r.Found() {
			found = append(found, r.Check.Name)
		} else {
			assert.Equal(t, http.StatusNotFound, r.Status, r.Check.Name)
			assert.Equal(t, "404", r.Label())
		}
	}
	assert.Equal(t, []string{"robots.txt", ".env"}, found)

	loot, err := os.ReadFile(ws.LootFile(".env"))
	require.NoError(t, err)
	assert.Equal(t, "DB_PASSWORD=hunter2\n", string(loot))

	// both exposures are logged; only the sensitive one becomes a finding
	assert.Contains(t, log.findings, "Exposed File on "+srv.URL+": robots.txt")
	assert.Contains(t, log.findings, "Exposed File on "+srv.URL+": .env")
	snap := store.Snapshot()
	require.Len(t, snap.Findings, 1)
	assert.Equal(t, "Exposed Environment File", snap.Findings[0].Title)
	assert.Equal(t, "HIGH", snap.Findings[0].Severity)
	assert.Equal(t, []string{srv.URL}, snap.Findings[0].AffectedSystems)
	assert.Contains(t, snap.Findings[0].ProofOfConcept, "curl -sk "+srv.URL+"/.env")
}

func TestWebHunterUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	log := &recordingLog{}
	h := NewWebHunter(time.Second, true, newWorkspace(t), log, findings.New(log, ""), quietLogger())
	results, err := h.QuickCheck(context.Background(), base)
	require.NoError(t, err)
	for _, r := range results {
		assert.Error(t, r.Err, r.Check.Name)
		assert.False(t, r.Found())
		assert.Equal(t, "ERROR", r.Label())
	}
}

func TestWebHunterTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	log := &recordingLog{}
	h := NewWebHunter(50*time.Millisecond, true, newWorkspace(t), log, findings.New(log, ""), quietLogger())
	h.checks = DefaultChecks[:1]

	results, err := h.QuickCheck(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "TIMEOUT", results[0].Label())
}

func TestScreenshotCapture(t *testing.T) {
	ws := newWorkspace(t)
	log := &recordingLog{}
	store := findings.New(log, "")
	s := NewScreenshotter(time.Second, ws, log, store)
	s.capture = func(context.Context, string) ([]byte, error) {
		return []byte("\x89PNG fake"), nil
	}

	path, err := s.Capture(context.Background(), "http://10.0.0.5/admin", "")
	require.NoError(t, err)
	assert.Equal(t, ws.ScreenshotFile("http://10.0.0.5/admin"), path)
	assert.FileExists(t, path)

	shots := store.Snapshot().Screenshots
	require.Len(t, shots, 1)
	assert.Equal(t, filepath.Base(path), shots[0].Filename)
	assert.Equal(t, "Screenshot of http://10.0.0.5/admin", shots[0].Description)
	assert.Len(t, log.events, 1)

	s.capture = func(context.Context, string) ([]byte, error) {
		return nil, errors.New("chrome not found")
	}
	_, err = s.Capture(context.Background(), "http://10.0.0.5/", "login")
	assert.Error(t, err)
	assert.Len(t, store.Snapshot().Screenshots, 1)
}
