package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Manage relay users",
	Aliases: []string{"users"},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageToken, _ := cmd.Flags().GetString("page-token")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		users, nextToken, err := userRepo.ListUsers(cmd.Context(), pageToken, pageSize)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		out, _ := yaml.Marshal(users)
		fmt.Println(string(out))
		if nextToken != "" {
			fmt.Printf("Next page token: %s\n", nextToken)
		}
		return nil
	},
}

// setActive flips the user's activation flag. Deactivation takes effect on
// the next token validation, including cached sessions.
func setActive(cmd *cobra.Command, active bool) error {
	userID, _ := cmd.Flags().GetString("user-id")
	email, _ := cmd.Flags().GetString("email")

	if userID == "" && email == "" {
		return errors.New("either --user-id or --email is required")
	}

	if userID == "" {
		user, err := userRepo.GetUserByEmail(cmd.Context(), email)
		if err != nil {
			return fmt.Errorf("failed to look up user by email: %w", err)
		}
		userID = user.ID
	}

	if err := userRepo.SetUserActive(cmd.Context(), userID, active); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	state := "activated"
	if !active {
		state = "deactivated"
	}
	fmt.Printf("User %s %s.\n", userID, state)
	return nil
}

var userActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, true)
	},
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Deactivate a user account",
	Long: `Deactivates a user. Subsequent token validations for the user's sessions
fail with "User account is deactivated" regardless of session state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userActivateCmd)
	userCmd.AddCommand(userDeactivateCmd)

	userListCmd.Flags().String("page-token", "", "Continuation token from a previous list call")
	userListCmd.Flags().Int("page-size", 50, "Maximum users per page")

	for _, c := range []*cobra.Command{userActivateCmd, userDeactivateCmd} {
		c.Flags().String("user-id", "", "ID of the user")
		c.Flags().String("email", "", "Email of the user (used when --user-id is not given)")
	}
}
