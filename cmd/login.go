package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/identity"
	"github.com/ytfree-cli/ytfree/style"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("token", "t", "", "ID token to sign in with, read from stdin or a prompt when omitted")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a Google ID token",
	Long: `Sign in with a Google-style ID token. Only the token payload is read: it names the
user that owns, edits and shares playlists. The token is kept in the system keyring.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))

		if token == "" {
			var err error
			token, err = readToken()
			handleErr(err)
		}

		user, err := identity.Login(token)
		handleErr(err)

		fmt.Printf("%s Signed in as %s\n", icon.Get(icon.Success), style.Bold(user.Name))
	},
}

// readToken prompts on a terminal and reads a single line otherwise, so the
// token can be piped in.
func readToken() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		var token string
		if _, err := fmt.Fscanln(os.Stdin, &token); err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return token, nil
	}

	var token string
	prompt := survey.Password{Message: "Paste your ID token:"}
	if err := survey.AskOne(&prompt, &token, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := identity.GetToken(); errors.Is(err, identity.ErrNotLoggedIn) {
			fmt.Println(style.Faint("Not signed in"))
			return
		}

		handleErr(identity.Logout())

		fmt.Printf("%s Signed out\n", icon.Get(icon.Success))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().BoolP("json", "j", false, "Print as JSON")
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		user, err := identity.Current()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJson(user)
			return
		}

		fmt.Println(style.Bold(user.Name))
		if user.Email != "" {
			fmt.Println(style.Fg(color.Yellow)(user.Email))
		}
		fmt.Println(style.Faint(user.ID))
	},
}
