package scanners

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/yorozuya-cybersecurity/netrunner/internal/workspace"
)

// Check is one well-known path probed by the WebHunter. Checks without a
// severity are informational and never become findings.
type Check struct {
	Name     string
	Severity string
	Title    string
	Fix      string
}

var DefaultChecks = []Check{
	{Name: "robots.txt"},
	{Name: "sitemap.xml"},
	{
		Name: ".git/HEAD", Severity: "HIGH", Title: "Exposed Git Repository",
		Fix: "Remove the .git directory from the web root or deny access to it in the web server configuration.",
	},
	{
		Name: ".env", Severity: "HIGH", Title: "Exposed Environment File",
		Fix: "Move .env outside the document root and rotate every secret it contains.",
	},
	{
		Name: "backup.zip", Severity: "HIGH", Title: "Exposed Backup Archive",
		Fix: "Delete backup archives from the web root and store backups off-host.",
	},
	{
		Name: "phpinfo.php", Severity: "MEDIUM", Title: "PHP Information Disclosure",
		Fix: "Remove phpinfo pages from production servers.",
	},
	{
		Name: "config.php", Severity: "LOW", Title: "Accessible Configuration Script",
		Fix: "Keep configuration scripts outside the document root.",
	},
}

// ProbeResult is the outcome of one check.
type ProbeResult struct {
	Check  Check
	URL    string
	Status int
	Loot   string
	Err    error
}

// Found reports whether the path answered 200.
func (r ProbeResult) Found() bool {
	return r.Err == nil && r.Status == 200
}

// Label is the short per-path status shown to the operator: the HTTP code,
// TIMEOUT or ERROR.
func (r ProbeResult) Label() string {
	if r.Err != nil {
		var netErr net.Error
		if (errors.As(r.Err, &netErr) && netErr.Timeout()) || errors.Is(r.Err, context.DeadlineExceeded) {
			return "TIMEOUT"
		}
		return "ERROR"
	}
	return strconv.Itoa(r.Status)
}

// WebHunter probes a web root for sensitive files.
type WebHunter struct {
	client *resty.Client
	checks []Check
	ws     *workspace.Workspace
	log    Logger
	rec    Recorder
}

func NewWebHunter(timeout time.Duration, insecure bool, ws *workspace.Workspace, log Logger, rec Recorder, logger *logrus.Logger) *WebHunter {
	client := resty.New().
		SetTimeout(timeout).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: insecure}).
		SetLogger(logger)

	return &WebHunter{
		client: client,
		checks: DefaultChecks,
		ws:     ws,
		log:    log,
		rec:    rec,
	}
}

// QuickCheck probes every check under baseURL. Transport errors are kept per
// result; only event log, loot or store failures abort the sweep.
func (h *WebHunter) QuickCheck(ctx context.Context, baseURL string) ([]ProbeResult, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	results := make([]ProbeResult, 0, len(h.checks))

	for _, check := range h.checks {
		res := ProbeResult{Check: check, URL: baseURL + "/" + check.Name}

		resp, err := h.client.R().SetContext(ctx).Get(res.URL)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Status = resp.StatusCode()

		if res.Found() {
			if err := h.collect(baseURL, &res, resp.Body()); err != nil {
				return results, err
			}
		}
		results = append(results, res)
	}
	return results, nil
}

func (h *WebHunter) collect(baseURL string, res *ProbeResult, body []byte) error {
	res.Loot = h.ws.LootFile(res.Check.Name)
	if err := os.WriteFile(res.Loot, body, 0644); err != nil {
		return fmt.Errorf("save loot %s: %w", res.Loot, err)
	}
	if err := h.log.LogFinding("Exposed File", baseURL, res.Check.Name); err != nil {
		return err
	}
	if res.Check.Severity == "" {
		return nil
	}

	return h.rec.QuickFinding(
		res.Check.Title,
		res.Check.Severity,
		baseURL,
		fmt.Sprintf("The file %s is publicly accessible at %s.", res.Check.Name, res.URL),
		"curl -sk "+res.URL,
		fmt.Sprintf("HTTP %d, %d bytes saved to %s", res.Status, len(body), res.Loot),
		res.Check.Fix,
	)
}
