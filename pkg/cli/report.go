package cli

import (
	"github.com/spf13/cobra"

	"github.com/yorozuya-cybersecurity/netrunner/internal/findings"
	"github.com/yorozuya-cybersecurity/netrunner/internal/schema"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Generate the Markdown report and JSON snapshot",
		Example: "netrunner report -w ./engagement --from ./engagement/reports/findings_20250911_131722.json --client ACME",
		RunE:    runReport,
	}

	cmd.Flags().String("from", "", "Rebuild the report from a findings snapshot JSON")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		from = s.cfg.Report.From
	}
	if from != "" {
		snap, err := schema.LoadSnapshot(from)
		if err != nil {
			return s.finish(cmd, err)
		}
		s.store = findings.FromSnapshot(s.events, snap)
		s.out.Info("Loaded %d findings from %s", len(snap.Findings), from)
	}

	err = s.writeReport()
	return s.finish(cmd, err)
}
