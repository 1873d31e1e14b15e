package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/agenda/internal/cli"
	"github.com/example/agenda/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "agenda",
		Short:   "Agenda - proposal scoring and escalation engine",
		Version: version.String(),
		Long: `agenda tracks staff proposals as they collect votes and climb the approval
hierarchy: department review, facility agenda, corporate review and corporate agenda.
It handles manual escalations, department reviews and expired escalation decisions.`,
		SilenceUsage: true,
	}
	cli.Bootstrap(rootCmd)

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.ProposalCmd())
	rootCmd.AddCommand(cli.EscalateCmd())
	rootCmd.AddCommand(cli.ReviewCmd())
	rootCmd.AddCommand(cli.ExpiredCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
