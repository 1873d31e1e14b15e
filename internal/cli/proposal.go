package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/wire"
)

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Create, inspect and vote on proposals",
}

var proposalCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a proposal at PENDING",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		author, err := actorFlag(cmd, "author")
		if err != nil {
			return err
		}
		department, _ := cmd.Flags().GetString("department")
		facility, _ := cmd.Flags().GetString("facility")

		_, err = wire.ProposalAdapter().Create(NewContext(), primary.CreateProposalRequest{
			AuthorID:   author,
			Title:      args[0],
			Department: department,
			FacilityID: facility,
		})
		return err
	},
}

var proposalShowCmd = &cobra.Command{
	Use:   "show [proposal-id]",
	Short: "Show a proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := proposalIDs.check(args[0]); err != nil {
			return err
		}
		_, err := wire.ProposalAdapter().Show(NewContext(), args[0])
		return err
	},
}

var proposalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List proposals",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		status, _ := cmd.Flags().GetString("status")
		department, _ := cmd.Flags().GetString("department")
		facility, _ := cmd.Flags().GetString("facility")
		limit, _ := cmd.Flags().GetInt("limit")

		_, err := wire.ProposalAdapter().List(NewContext(), primary.ProposalFilters{
			Level:      level,
			Status:     status,
			Department: department,
			FacilityID: facility,
			Limit:      limit,
		})
		return err
	},
}

var proposalVoteCmd = &cobra.Command{
	Use:   "vote [proposal-id] [delta]",
	Short: "Apply a score delta (negative deltas allowed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := proposalIDs.check(args[0]); err != nil {
			return err
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		_, err = wire.ProposalAdapter().Vote(NewContext(), args[0], delta)
		return err
	},
}

func init() {
	proposalCreateCmd.Flags().String("author", "", "Author user ID")
	proposalCreateCmd.Flags().StringP("department", "d", "", "Department")
	proposalCreateCmd.Flags().StringP("facility", "f", "", "Facility ID")

	proposalListCmd.Flags().StringP("level", "l", "", "Filter by level")
	proposalListCmd.Flags().StringP("status", "s", "", "Filter by status")
	proposalListCmd.Flags().StringP("department", "d", "", "Filter by department")
	proposalListCmd.Flags().StringP("facility", "f", "", "Filter by facility")
	proposalListCmd.Flags().Int("limit", 0, "Maximum rows (0 = all)")

	// "-5" must reach the delta argument rather than be parsed as a flag.
	proposalVoteCmd.Flags().SetInterspersed(false)

	proposalCmd.AddCommand(proposalCreateCmd)
	proposalCmd.AddCommand(proposalShowCmd)
	proposalCmd.AddCommand(proposalListCmd)
	proposalCmd.AddCommand(proposalVoteCmd)
}

// ProposalCmd returns the proposal command
func ProposalCmd() *cobra.Command {
	return proposalCmd
}
