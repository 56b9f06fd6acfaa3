package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yorozuya-cybersecurity/netrunner/internal/scanners"
)

func newWebCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "web",
		Short:   "Probe a web root for exposed files (robots.txt, .git, .env, backups)",
		Example: "netrunner web --url http://10.10.10.5 --attest 'authorized by ACME SOW-42'",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			if url == "" {
				return errors.New("please provide --url")
			}
			if err := checkAttest(cmd); err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.finish(cmd, runWeb(cmd, s, url))
		},
	}

	cmd.Flags().String("url", "", "Base URL to probe")
	addAttestFlag(cmd)
	return cmd
}

func runWeb(cmd *cobra.Command, s *session, url string) error {
	s.out.Stage("Web quick check: " + url)
	hunter := scanners.NewWebHunter(s.cfg.Web.Timeout, s.cfg.Web.Insecure, s.ws, s.events, s.store, s.logger)

	results, err := hunter.QuickCheck(cmd.Context(), url)
	if err != nil {
		return err
	}

	found := 0
	for _, r := range results {
		switch {
		case r.Found():
			found++
			s.out.Success("Found: %s (saved to %s)", r.URL, r.Loot)
		case r.Err != nil:
			s.out.Warn("[%s] %s", r.Label(), r.Check.Name)
			s.logger.WithError(r.Err).Debugf("probe %s", r.URL)
		default:
			s.out.Info("[%s] %s", r.Label(), r.Check.Name)
		}
	}
	if found == 0 {
		s.out.Info("No exposed files found")
	}
	return nil
}
