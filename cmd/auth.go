package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/albinchristo04/streameast/auth"
	"github.com/albinchristo04/streameast/color"
	"github.com/albinchristo04/streameast/icon"
	"github.com/albinchristo04/streameast/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

// authCmd manages the upstream API token in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API token stored in the system keyring",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token for authenticated requests",
	Run: func(cmd *cobra.Command, args []string) {
		prompt := survey.Password{
			Message: "API token:",
		}
		var token string
		handleErr(survey.AskOne(&prompt, &token))

		if token == "" {
			fmt.Printf("%s No token entered, nothing stored\n", icon.Get(icon.Warning))
			return
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s Token stored in the system keyring\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := auth.GetToken(); err != nil {
			fmt.Printf("%s No token stored, requests are unauthenticated\n", icon.Get(icon.Warning))
			return
		}

		fmt.Printf("%s Token present, requests carry a bearer token\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s Token removed from the system keyring\n", icon.Get(icon.Success))
	},
}
