package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yorozuya-cybersecurity/netrunner/internal/console"
	"github.com/yorozuya-cybersecurity/netrunner/internal/payloads"
)

func newPayloadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "payloads sqli|xss|lfi",
		Short:     "Print injection payloads by category",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"sqli", "xss", "lfi"},
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := payloads.Load()
			if err != nil {
				return err
			}
			cats, err := lib.Kind(args[0])
			if err != nil {
				return err
			}

			out := console.New(cmd.OutOrStdout())
			for _, c := range cats {
				out.Heading(c.Category)
				for _, p := range c.Payloads {
					fmt.Fprintln(out.Writer(), p)
				}
			}
			return nil
		},
	}
}

func newCredsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "creds SERVICE",
		Short: "List default credentials for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := payloads.DefaultCreds(args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(creds))
			for _, c := range creds {
				rows = append(rows, []string{c.Username, c.Password})
			}
			return console.New(cmd.OutOrStdout()).Table([]string{"Username", "Password"}, rows)
		},
	}
}
