package scanners

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/yorozuya-cybersecurity/netrunner/internal/workspace"
)

// Screenshotter captures pages with a headless Chrome.
type Screenshotter struct {
	timeout time.Duration
	ws      *workspace.Workspace
	log     Logger
	rec     Recorder
	capture func(ctx context.Context, url string) ([]byte, error)
}

func NewScreenshotter(timeout time.Duration, ws *workspace.Workspace, log Logger, rec Recorder) *Screenshotter {
	s := &Screenshotter{timeout: timeout, ws: ws, log: log, rec: rec}
	s.capture = s.chromeCapture
	return s
}

// Capture saves a PNG of url under the workspace and records it.
func (s *Screenshotter) Capture(ctx context.Context, url, description string) (string, error) {
	png, err := s.capture(ctx, url)
	if err != nil {
		return "", fmt.Errorf("capture %s: %w", url, err)
	}

	path := s.ws.ScreenshotFile(url)
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("save screenshot %s: %w", path, err)
	}
	if description == "" {
		description = "Screenshot of " + url
	}
	if err := s.rec.AddScreenshot(filepath.Base(path), description); err != nil {
		return path, err
	}
	return path, s.log.LogEvent(fmt.Sprintf("screenshot %s saved to %s", url, path))
}

func (s *Screenshotter) chromeCapture(ctx context.Context, url string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1366, 768),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	browserCtx, cancel = context.WithTimeout(browserCtx, s.timeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
