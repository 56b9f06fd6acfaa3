package scanners

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yorozuya-cybersecurity/netrunner/internal/workspace"
	"github.com/yorozuya-cybersecurity/netrunner/pkg/utils"
)

// Gobuster wraps gobuster directory mode.
type Gobuster struct {
	path       string
	extensions string
	timeout    time.Duration
	ws         *workspace.Workspace
	log        Logger
	run        runFunc
}

func NewGobuster(path, extensions string, timeout time.Duration, ws *workspace.Workspace, log Logger, logger *logrus.Logger) *Gobuster {
	return &Gobuster{
		path:       path,
		extensions: extensions,
		timeout:    timeout,
		ws:         ws,
		log:        log,
		run:        execRunner(logger),
	}
}

// DirEntry is one discovered path.
type DirEntry struct {
	Path   string
	Status int
}

// DirectoryEnum brute-forces paths under rawURL with wordlist.
func (g *Gobuster) DirectoryEnum(ctx context.Context, rawURL, wordlist string) ([]DirEntry, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, "", fmt.Errorf("invalid url %q", rawURL)
	}

	file := filepath.Join(g.ws.Scans, fmt.Sprintf("gobuster_%s.txt", utils.SafeName(u.Host)))
	args := []string{"dir", "-u", rawURL, "-w", wordlist}
	if g.extensions != "" {
		args = append(args, "-x", g.extensions)
	}
	args = append(args, "-o", file)

	if err := g.log.LogCommand(commandLine(g.path, args), rawURL); err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	out, err := g.run(ctx, g.path, args...)
	if err != nil {
		return nil, file, err
	}

	// the -o file holds clean lines without progress output
	if data, err := os.ReadFile(file); err == nil {
		out = string(data)
	}
	return ParseGobuster(out), file, nil
}

var gobusterLine = regexp.MustCompile(`^(/\S*)\s+\(Status:\s*(\d+)\)`)

// ParseGobuster reads "/path (Status: N) [Size: M]" lines.
func ParseGobuster(output string) []DirEntry {
	var entries []DirEntry
	for _, line := range strings.Split(output, "\n") {
		m := gobusterLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		status, _ := strconv.Atoi(m[2])
		entries = append(entries, DirEntry{Path: m[1], Status: status})
	}
	return entries
}
