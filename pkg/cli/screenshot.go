package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yorozuya-cybersecurity/netrunner/internal/scanners"
)

func newScreenshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture a page with headless Chrome and record it as evidence",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			if url == "" {
				return errors.New("please provide --url")
			}
			description, _ := cmd.Flags().GetString("description")

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			shooter := scanners.NewScreenshotter(s.cfg.Screenshot.Timeout, s.ws, s.events, s.store)
			s.out.Stage("Screenshot: " + url)
			path, err := shooter.Capture(cmd.Context(), url, description)
			if err == nil {
				s.out.Success("Screenshot saved to %s", path)
			}
			return s.finish(cmd, err)
		},
	}

	cmd.Flags().String("url", "", "Page URL")
	cmd.Flags().String("description", "", "Evidence description (default \"Screenshot of <url>\")")
	return cmd
}
