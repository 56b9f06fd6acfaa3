package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version = "0.1.0"
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "netrunner",
		Short:         "Penetration test helper: scans, web probes, payloads and reports",
		Long:          "netrunner wraps nmap, gobuster and headless Chrome, keeps a per-run workspace with command and finding logs, and compiles the collected findings into a Markdown report with a JSON snapshot.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.StringP("workspace", "w", "", "Workspace directory (default netrunner_workspace_<timestamp>)")
	pf.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	pf.Bool("report", false, "Generate the report after the command finishes")
	pf.String("client", "Client", "Client name on the report")
	pf.String("type", "Penetration Test", "Assessment type on the report")
	pf.StringSlice("in-scope", nil, "In-scope items for the report")
	pf.StringSlice("out-scope", nil, "Out-of-scope items for the report")
	pf.StringSlice("tools", nil, "Tools listed in the report appendix")
	pf.String("summary", "", "Custom executive summary, replaces the generated one")

	_ = viper.BindPFlag("workspace", pf.Lookup("workspace"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("report.client", pf.Lookup("client"))
	_ = viper.BindPFlag("report.type", pf.Lookup("type"))
	_ = viper.BindPFlag("report.in_scope", pf.Lookup("in-scope"))
	_ = viper.BindPFlag("report.out_scope", pf.Lookup("out-scope"))
	_ = viper.BindPFlag("report.tools", pf.Lookup("tools"))
	_ = viper.BindPFlag("report.summary", pf.Lookup("summary"))

	// Environment variable support (NETRUNNER_WORKSPACE, NETRUNNER_NMAP_PATH, etc.)
	viper.SetEnvPrefix("NETRUNNER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Subcommands
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newWebCmd())
	rootCmd.AddCommand(newDirsCmd())
	rootCmd.AddCommand(newScreenshotCmd())
	rootCmd.AddCommand(newShellCmd())
	rootCmd.AddCommand(newPayloadsCmd())
	rootCmd.AddCommand(newCredsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("interrupted by operator")
			os.Exit(130)
		}
		fmt.Println(err)
		os.Exit(1)
	}
}
