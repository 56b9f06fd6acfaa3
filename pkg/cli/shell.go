package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yorozuya-cybersecurity/netrunner/internal/payloads"
	"github.com/yorozuya-cybersecurity/netrunner/pkg/utils"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "shell LHOST[:LPORT[:TYPE]]",
		Short:   "Generate reverse shell one-liners and save them to the workspace",
		Example: "netrunner shell 10.10.14.3:9001:bash_b64",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lhost, lport, kind, err := payloads.ParseShellSpec(args[0])
			if err != nil {
				return err
			}
			shells, err := payloads.ReverseShell(lhost, lport, kind)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.finish(cmd, saveShells(s, lhost, lport, shells))
		},
	}
}

func saveShells(s *session, lhost string, lport int, shells []payloads.Shell) error {
	var b strings.Builder
	for _, sh := range shells {
		s.out.Heading(sh.Name)
		fmt.Fprintln(s.out.Writer(), sh.Command)
		fmt.Fprintf(&b, "# %s\n%s\n\n", sh.Name, sh.Command)
	}

	path := s.ws.ExploitFile(fmt.Sprintf("revshell_%s_%d", lhost, lport))
	if err := utils.WriteText(path, b.String()); err != nil {
		return err
	}
	s.out.Success("Shells saved to %s", path)
	s.out.Info("Listener: nc -lvnp %d", lport)
	return s.events.LogEvent(fmt.Sprintf("reverse shells for %s:%d saved to %s", lhost, lport, path))
}
