package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	loginCmd.Flags().String("email", "", "Admin email")
	loginCmd.Flags().String("api-key", "", "Admin API key")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("api-key")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print a session token",
	Long:  "Sign in and print a session token. Export it as " + envToken + " for later commands.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		key, _ := cmd.Flags().GetString("api-key")

		tok, err := apiClient.Login(cmd.Context(), email, key)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

// GetLoginCmd returns the login command
func GetLoginCmd() *cobra.Command {
	return loginCmd
}
