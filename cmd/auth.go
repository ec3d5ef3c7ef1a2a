package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MehrXloop/calsync/internal/msauth"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the cached Microsoft Graph credential",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize calsync against your Microsoft account",
		Long: `Open the printed URL in a browser, sign in, and paste the authorization
code back into the terminal. The resulting tokens are cached on disk and
refreshed automatically.

Requires an Azure AD app registration; set CALSYNC_CLIENT_ID (and
CALSYNC_CLIENT_SECRET for confidential clients) in the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("CALSYNC_CLIENT_ID") == "" {
				return fmt.Errorf("CALSYNC_CLIENT_ID is not set")
			}

			fmt.Println("Visit the following URL to authorize calsync:")
			fmt.Println()
			fmt.Println("  " + msauth.GetAuthURL())
			fmt.Println()
			fmt.Print("Enter authorization code: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("empty authorization code")
			}

			if err := msauth.SaveToken(cmd.Context(), code); err != nil {
				return err
			}

			fmt.Println("Credential cached.")
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the cached credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := msauth.DeleteToken(); err != nil {
				return err
			}
			fmt.Println("Credential removed.")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a cached credential exists",
		Run: func(cmd *cobra.Command, args []string) {
			if msauth.HasToken() {
				fmt.Println("Authenticated (cached credential present).")
			} else {
				fmt.Println("Not authenticated. Run 'calsync auth login' first.")
			}
		},
	}
}
