package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yorozuya-cybersecurity/netrunner/internal/errs"
	"github.com/yorozuya-cybersecurity/netrunner/pkg/utils"
)

// Workspace is the directory tree of one run.
type Workspace struct {
	Session     string
	Root        string
	Scans       string
	Exploits    string
	Screenshots string
	Loot        string
	Reports     string
	Logs        string
}

// New creates the workspace tree under base. An empty base yields
// netrunner_workspace_<timestamp> in the current directory.
func New(base string) (*Workspace, error) {
	if base == "" {
		base = "netrunner_workspace_" + time.Now().Format("20060102_150405")
	}

	ws := &Workspace{
		Session:     uuid.NewString(),
		Root:        base,
		Scans:       filepath.Join(base, "scans"),
		Exploits:    filepath.Join(base, "exploits"),
		Screenshots: filepath.Join(base, "screenshots"),
		Loot:        filepath.Join(base, "loot"),
		Reports:     filepath.Join(base, "reports"),
		Logs:        filepath.Join(base, "logs"),
	}

	for _, dir := range []string{ws.Root, ws.Scans, ws.Exploits, ws.Screenshots, ws.Loot, ws.Reports, ws.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", errs.ErrCollaboratorUnavailable, dir, err)
		}
	}
	return ws, nil
}

// ScanFile returns the output path for a scan of target.
func (w *Workspace) ScanFile(target, kind string) string {
	name := fmt.Sprintf("%s_%s.txt", kind, strings.ReplaceAll(utils.SafeName(target), ".", "_"))
	return filepath.Join(w.Scans, name)
}

func (w *Workspace) ExploitFile(name string) string {
	return filepath.Join(w.Exploits, utils.SafeName(name)+".txt")
}

func (w *Workspace) LootFile(name string) string {
	return filepath.Join(w.Loot, strings.ReplaceAll(name, "/", "_")+".txt")
}

func (w *Workspace) ScreenshotFile(name string) string {
	return filepath.Join(w.Screenshots, utils.SafeName(name)+".png")
}
