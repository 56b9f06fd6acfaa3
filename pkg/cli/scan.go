package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yorozuya-cybersecurity/netrunner/internal/scanners"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scan",
		Short:   "Run an nmap scan against a target and suggest attack vectors",
		Example: "netrunner scan --target 10.10.10.5 --full --attest 'authorized by ACME SOW-42' --report",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("target")
			if target == "" {
				return errors.New("please provide --target")
			}
			if err := checkAttest(cmd); err != nil {
				return err
			}
			full, _ := cmd.Flags().GetBool("full")

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.finish(cmd, runScan(cmd, s, target, full))
		},
	}

	cmd.Flags().String("target", "", "Target IP or hostname")
	cmd.Flags().Bool("full", false, "Scan all ports with service detection and default scripts")
	addAttestFlag(cmd)
	return cmd
}

func runScan(cmd *cobra.Command, s *session, target string, full bool) error {
	nmap := scanners.NewNmap(s.cfg.Nmap.Path, s.cfg.Nmap.Timeout, s.ws, s.events, s.store, s.logger)

	var (
		res *scanners.ScanResult
		err error
	)
	if full {
		s.out.Stage("Full port scan: " + target)
		res, err = nmap.FullScan(cmd.Context(), target)
	} else {
		s.out.Stage("Quick scan: " + target)
		res, err = nmap.QuickScan(cmd.Context(), target)
	}
	if err != nil {
		return err
	}
	s.out.Success("Scan complete. Results saved to %s", res.File)

	if !full {
		return nil
	}
	if len(res.Vectors) == 0 {
		s.out.Warn("No known attack vectors in scan output")
		return nil
	}

	s.out.Stage("Attack vectors")
	for _, v := range res.Vectors {
		s.out.Heading(fmt.Sprintf("%s %s", v.Priority, v.Service))
		for _, c := range v.Commands {
			s.out.Item("%s", c)
		}
	}
	return s.events.LogEvent(fmt.Sprintf("attack vectors for %s: %s", target, vectorNames(res.Vectors)))
}

func vectorNames(vs []scanners.AttackVector) string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		names = append(names, v.Service)
	}
	return strings.Join(names, ", ")
}

func addAttestFlag(cmd *cobra.Command) {
	cmd.Flags().String("attest", "", "Authorization statement (e.g., 'I am authorized to test this target')")
}

func checkAttest(cmd *cobra.Command) error {
	if a, _ := cmd.Flags().GetString("attest"); strings.TrimSpace(a) == "" {
		return errors.New("please provide --attest to confirm authorization")
	}
	return nil
}
