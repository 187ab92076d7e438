package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamscout/streamscout/auth"
	"github.com/streamscout/streamscout/icon"
)

func init() {
	rootCmd.AddCommand(frontendCmd)

	frontendCmd.AddCommand(frontendTokenCmd)
	frontendTokenCmd.Flags().BoolP("delete", "d", false, "Remove the stored token")
	frontendTokenCmd.Flags().BoolP("check", "c", false, "Only report whether a token is stored")
	frontendTokenCmd.MarkFlagsMutuallyExclusive("delete", "check")
}

var frontendCmd = &cobra.Command{
	Use:   "frontend",
	Short: "Configure the Telegram front-end",
}

var frontendTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Store the Telegram bot token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case lo.Must(cmd.Flags().GetBool("delete")):
			handleErr(auth.DeleteToken())
			fmt.Printf("%s token deleted\n", icon.Get(icon.Success))
		case lo.Must(cmd.Flags().GetBool("check")):
			if _, err := auth.GetToken(); err != nil {
				fmt.Printf("%s no token stored\n", icon.Get(icon.Warn))
				return
			}
			fmt.Printf("%s token stored\n", icon.Get(icon.Success))
		default:
			var token string
			handleErr(survey.AskOne(&survey.Password{Message: "Bot token:"}, &token, survey.WithValidator(survey.Required)))

			token = strings.TrimSpace(token)
			if token == "" {
				handleErr(errors.New("empty token"))
			}

			handleErr(auth.SetToken(token))
			fmt.Printf("%s token saved\n", icon.Get(icon.Success))
		}
	},
}
