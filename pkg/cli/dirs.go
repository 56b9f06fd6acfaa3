package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yorozuya-cybersecurity/netrunner/internal/scanners"
)

func newDirsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dirs",
		Short:   "Enumerate directories with gobuster",
		Example: "netrunner dirs --url http://10.10.10.5 --wordlist /usr/share/wordlists/dirb/big.txt --attest 'authorized'",
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
			wordlist, _ := cmd.Flags().GetString("wordlist")
			if wordlist == "" {
				wordlist = s.cfg.Gobuster.Wordlist
			}
			return s.finish(cmd, runDirs(cmd, s, url, wordlist))
		},
	}

	cmd.Flags().String("url", "", "Base URL to enumerate")
	cmd.Flags().String("wordlist", "", "Wordlist path (defaults to gobuster.wordlist)")
	addAttestFlag(cmd)
	return cmd
}

func runDirs(cmd *cobra.Command, s *session, url, wordlist string) error {
	s.out.Stage("Directory enumeration: " + url)
	gb := scanners.NewGobuster(s.cfg.Gobuster.Path, s.cfg.Gobuster.Extensions, s.cfg.Gobuster.Timeout, s.ws, s.events, s.logger)

	entries, file, err := gb.DirectoryEnum(cmd.Context(), url, wordlist)
	if err != nil {
		return err
	}
	for _, e := range entries {
		s.out.Item("%s (Status: %d)", e.Path, e.Status)
	}
	s.out.Success("%d paths found. Results saved to %s", len(entries), file)
	return nil
}
