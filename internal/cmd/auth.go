package cmd

import (
	"github.com/spf13/cobra"

	"github.com/campuslink/campus/cli/pkg/auth"
	"github.com/campuslink/campus/cli/pkg/output"
	"github.com/campuslink/campus/cli/pkg/prompter"
	"github.com/campuslink/campus/cli/pkg/service"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage the token used to talk to the campus API",
}

var tokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Store an API token",
	Long:  "Store the bearer token for later commands. Without an argument it is read from the terminal without echo.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			t, err := prompter.Stdio().PromptSecret("Token: ")
			if err != nil {
				return err
			}
			token = t
		}
		return service.NewAuthService(auth.NewSession(), output.Default()).SetToken(token)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(auth.NewSession(), output.Default()).Logout()
	},
}

func init() {
	authCmd.AddCommand(tokenCmd)
	authCmd.AddCommand(logoutCmd)
}
