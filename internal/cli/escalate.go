package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/wire"
)

var escalateCmd = &cobra.Command{
	Use:   "escalate [proposal-id] [target-level]",
	Short: "Manually escalate a proposal to a higher tier",
	Long: `Move a proposal forward to FACILITY_AGENDA, CORP_REVIEW or CORP_AGENDA.

The actor must hold the target tier's permission floor and give a reason.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := proposalIDs.check(args[0]); err != nil {
			return err
		}
		actor, err := actorFlag(cmd, "actor")
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")

		_, err = wire.EscalationAdapter().Escalate(NewContext(), primary.EscalateRequest{
			ProposalID:  args[0],
			TargetLevel: args[1],
			Reason:      reason,
			ActorID:     actor,
		})
		return err
	},
}

func init() {
	escalateCmd.Flags().String("actor", "", "Escalating user ID")
	escalateCmd.Flags().StringP("reason", "r", "", "Reason for the escalation (required)")
	escalateCmd.MarkFlagRequired("reason")
}

// EscalateCmd returns the escalate command
func EscalateCmd() *cobra.Command {
	return escalateCmd
}
