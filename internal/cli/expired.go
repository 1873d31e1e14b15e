package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/wire"
)

var expiredCmd = &cobra.Command{
	Use:   "expired",
	Short: "Resolve escalations whose voting deadline has passed",
}

var expiredListCmd = &cobra.Command{
	Use:   "list",
	Short: "List overdue escalated proposals with their achievement rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.ExpiredAdapter().List(NewContext())
		return err
	},
}

var expiredDecideCmd = &cobra.Command{
	Use:   "decide [proposal-id] [decision]",
	Short: "Resolve an expired escalation",
	Long: `Resolve an overdue escalation. Each expired deadline can be decided once.

Decisions:
  approve_at_current_level   freeze it as approved at its tier
  downgrade                  move it back one tier
  reject                     archive it`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := proposalIDs.check(args[0]); err != nil {
			return err
		}
		decider, err := actorFlag(cmd, "decider")
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")

		_, err = wire.ExpiredAdapter().Decide(NewContext(), primary.ExpiredDecisionRequest{
			ProposalID: args[0],
			Decision:   args[1],
			Reason:     reason,
			DeciderID:  decider,
		})
		return err
	},
}

func init() {
	expiredDecideCmd.Flags().String("decider", "", "Deciding user ID")
	expiredDecideCmd.Flags().StringP("reason", "r", "", "Reason for the decision (required)")
	expiredDecideCmd.MarkFlagRequired("reason")

	expiredCmd.AddCommand(expiredListCmd)
	expiredCmd.AddCommand(expiredDecideCmd)
}

// ExpiredCmd returns the expired command
func ExpiredCmd() *cobra.Command {
	return expiredCmd
}
