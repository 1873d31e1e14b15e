package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/wire"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and their permission levels",
}

var userAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if err := userIDs.check(id); err != nil {
			return err
		}
		level, _ := cmd.Flags().GetString("permission")
		department, _ := cmd.Flags().GetString("department")
		facility, _ := cmd.Flags().GetString("facility")

		_, err := wire.UserAdapter().Add(NewContext(), primary.CreateUserRequest{
			ID:         id,
			Name:       args[0],
			Department: department,
			FacilityID: facility,
			Permission: level,
		})
		return err
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := userIDs.check(args[0]); err != nil {
			return err
		}
		_, err := wire.UserAdapter().Show(NewContext(), args[0])
		return err
	},
}

func init() {
	userAddCmd.Flags().String("id", "", "User ID (default: generated USR-xxxxxxxx)")
	userAddCmd.Flags().StringP("permission", "p", "", "Permission level, e.g. 5, 6.5, 99 (required)")
	userAddCmd.Flags().StringP("department", "d", "", "Department")
	userAddCmd.Flags().StringP("facility", "f", "", "Facility ID")
	userAddCmd.MarkFlagRequired("permission")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userShowCmd)
}

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	return userCmd
}
