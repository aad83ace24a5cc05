package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skyline-media/realtime-relay/domain"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Short:   "Manage relay sessions",
	Aliases: []string{"sessions"},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user-id")
		activeOnly, _ := cmd.Flags().GetBool("active")

		if userID == "" {
			return errors.New("user id is required via --user-id flag")
		}

		filter := domain.SessionFilter{}
		if activeOnly {
			active := true
			filter.IsActive = &active
		}

		sessions, err := sessionRepo.ListSessionsByUserID(cmd.Context(), userID, filter)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		out, _ := yaml.Marshal(sessions)
		fmt.Println(string(out))
		return nil
	},
}

var sessionRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke a session by its ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session-id")
		if sessionID == "" {
			return errors.New("session id is required via --session-id flag")
		}

		if err := sessionRepo.RevokeSession(cmd.Context(), sessionID); err != nil {
			return fmt.Errorf("failed to revoke session: %w", err)
		}

		fmt.Println("Session revoked. It will fail validation as invalidated until it expires.")
		return nil
	},
}

var sessionCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired sessions from the store",
	Long: `Deletes sessions whose expiry has passed. The store's TTL index does this
in the background as well; cleanup forces the sweep immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := sessionRepo.DeleteExpiredSessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to delete expired sessions: %w", err)
		}
		fmt.Printf("Deleted %d expired session(s).\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionRevokeCmd)
	sessionCmd.AddCommand(sessionCleanupCmd)

	sessionListCmd.Flags().String("user-id", "", "ID of the user whose sessions to list")
	sessionListCmd.Flags().Bool("active", false, "List only sessions still marked active")

	sessionRevokeCmd.Flags().String("session-id", "", "ID of the session to revoke")
}
