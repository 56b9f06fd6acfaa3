package scanners

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yorozuya-cybersecurity/netrunner/internal/workspace"
)

// Nmap wraps the nmap binary.
type Nmap struct {
	path    string
	timeout time.Duration
	ws      *workspace.Workspace
	log     Logger
	rec     Recorder
	run     runFunc
}

func NewNmap(path string, timeout time.Duration, ws *workspace.Workspace, log Logger, rec Recorder, logger *logrus.Logger) *Nmap {
	return &Nmap{
		path:    path,
		timeout: timeout,
		ws:      ws,
		log:     log,
		rec:     rec,
		run:     execRunner(logger),
	}
}

// ScanResult is the outcome of one nmap run.
type ScanResult struct {
	File    string
	Output  string
	Vectors []AttackVector
}

// AttackVector suggests follow-up commands for a detected service.
type AttackVector struct {
	Service  string
	Port     string
	Priority string
	Commands []string
}

// QuickScan runs a fast top-ports scan.
func (n *Nmap) QuickScan(ctx context.Context, target string) (*ScanResult, error) {
	file := n.ws.ScanFile(target, "quick")
	out, err := n.exec(ctx, target, "-T4", "-F", "--min-rate=1000", "-oN", file, target)
	if err != nil {
		return nil, err
	}
	return &ScanResult{File: file, Output: out}, nil
}

// FullScan runs an all-ports service scan, records the target with its open
// services and suggests attack vectors.
func (n *Nmap) FullScan(ctx context.Context, target string) (*ScanResult, error) {
	file := n.ws.ScanFile(target, "full")
	out, err := n.exec(ctx, target, "-sC", "-sV", "-p-", "--min-rate=1000", "-oN", file, target)
	if err != nil {
		return nil, err
	}

	host := ParseHost(out, target)
	if err := n.rec.AddTarget(target, host.Hostname, host.OS, host.Services); err != nil {
		return nil, fmt.Errorf("record target: %w", err)
	}
	return &ScanResult{File: file, Output: out, Vectors: AnalyzeOutput(out, target)}, nil
}

func (n *Nmap) exec(ctx context.Context, target string, args ...string) (string, error) {
	if err := n.log.LogCommand(commandLine(n.path, args), target); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return n.run(ctx, n.path, args...)
}

// Host is what a service scan tells about one system.
type Host struct {
	Hostname string
	OS       string
	Services []string
}

var (
	portLine   = regexp.MustCompile(`^(\d+/(?:tcp|udp))\s+open\s+(.*)$`)
	reportLine = regexp.MustCompile(`^Nmap scan report for (\S+) \(([^)]+)\)`)
)

// ParseHost extracts open services, hostname and OS from normal nmap output.
func ParseHost(output, target string) Host {
	var h Host
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case portLine.MatchString(line):
			m := portLine.FindStringSubmatch(line)
			h.Services = append(h.Services, strings.Join(strings.Fields(m[1]+" open "+m[2]), " "))
		case reportLine.MatchString(line):
			if m := reportLine.FindStringSubmatch(line); m[1] != target {
				h.Hostname = m[1]
			}
		case strings.HasPrefix(line, "OS details:"):
			h.OS = strings.TrimSpace(strings.TrimPrefix(line, "OS details:"))
		case strings.HasPrefix(line, "Service Info:") && h.OS == "":
			if i := strings.Index(line, "OS: "); i >= 0 {
				os := line[i+len("OS: "):]
				if j := strings.Index(os, ";"); j >= 0 {
					os = os[:j]
				}
				h.OS = strings.TrimSpace(os)
			}
		}
	}
	return h
}

// AnalyzeOutput maps detected services to follow-up commands.
func AnalyzeOutput(output, target string) []AttackVector {
	if output == "" {
		return nil
	}
	lower := strings.ToLower(output)
	var vectors []AttackVector

	if strings.Contains(output, "21/tcp") && strings.Contains(lower, "ftp") {
		vectors = append(vectors, AttackVector{
			Service: "FTP", Port: "21", Priority: "HIGH",
			Commands: []string{
				"ftp " + target,
				fmt.Sprintf("hydra -L users.txt -P pass.txt ftp://%s", target),
			},
		})
	}

	if strings.Contains(output, "22/tcp") && strings.Contains(lower, "ssh") {
		vectors = append(vectors, AttackVector{
			Service: "SSH", Port: "22", Priority: "MEDIUM",
			Commands: []string{
				"ssh root@" + target,
				fmt.Sprintf("hydra -l root -P pass.txt ssh://%s", target),
			},
		})
	}

	if port := webPort(output); port != "" {
		scheme := "http"
		if port == "443" {
			scheme = "https"
		}
		base := fmt.Sprintf("%s://%s", scheme, target)
		vectors = append(vectors, AttackVector{
			Service: "WEB", Port: port, Priority: "CRITICAL",
			Commands: []string{
				"curl " + base + "/robots.txt",
				fmt.Sprintf("gobuster dir -u %s -w /usr/share/wordlists/dirb/common.txt", base),
				"nikto -h " + base,
				"SQL injection testing on forms",
				"File upload exploitation",
			},
		})
	}

	if strings.Contains(output, "445/tcp") {
		vectors = append(vectors, AttackVector{
			Service: "SMB", Port: "445", Priority: "CRITICAL",
			Commands: []string{
				"nmap -p 445 --script smb-vuln-ms17-010 " + target,
				fmt.Sprintf("smbclient -L //%s -N", target),
				"enum4linux -a " + target,
			},
		})
	}

	if strings.Contains(output, "3306/tcp") && strings.Contains(lower, "mysql") {
		vectors = append(vectors, AttackVector{
			Service: "MYSQL", Port: "3306", Priority: "HIGH",
			Commands: []string{
				fmt.Sprintf("mysql -h %s -u root -p", target),
				"Test credentials: root:(blank), root:root",
			},
		})
	}
	return vectors
}

func webPort(output string) string {
	for _, port := range []string{"80", "443", "8080"} {
		if strings.Contains(output, port+"/tcp") {
			return port
		}
	}
	return ""
}
