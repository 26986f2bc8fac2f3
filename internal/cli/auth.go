package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lu-zhengda/mailroom/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, sign in and out",
	}
	cmd.AddCommand(newAuthSignUpCmd())
	cmd.AddCommand(newAuthSignInCmd())
	cmd.AddCommand(newAuthSignOutCmd())
	cmd.AddCommand(newAuthWhoAmICmd())
	return cmd
}

func newAuthSignUpCmd() *cobra.Command {
	var emailFlag, nameFlag string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account with the configured identity provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if emailFlag == "" {
				return fmt.Errorf("--email is required")
			}
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			user, err := e.auth.SignUp(cmd.Context(), emailFlag, password, nameFlag)
			if err != nil {
				return fmt.Errorf("failed to sign up: %w", err)
			}
			return printAction(cmd.OutOrStdout(),
				jsonAction{OK: true, Action: "signup", Email: user.Email, AccountID: user.ID},
				fmt.Sprintf("Signed up as %s.", user.Email))
		},
	}

	cmd.Flags().StringVar(&emailFlag, "email", "", "email address")
	cmd.Flags().StringVar(&nameFlag, "name", "", "full name")
	return cmd
}

func newAuthSignInCmd() *cobra.Command {
	var emailFlag string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if emailFlag == "" {
				return fmt.Errorf("--email is required")
			}
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			user, err := e.auth.SignIn(cmd.Context(), emailFlag, password)
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return fmt.Errorf("invalid email or password")
			}
			if err != nil {
				return fmt.Errorf("failed to sign in: %w", err)
			}
			return printAction(cmd.OutOrStdout(),
				jsonAction{OK: true, Action: "signin", Email: user.Email, AccountID: user.ID},
				fmt.Sprintf("Signed in as %s.", user.Email))
		},
	}

	cmd.Flags().StringVar(&emailFlag, "email", "", "email address")
	return cmd
}

func newAuthSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.auth.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			return printAction(cmd.OutOrStdout(), jsonAction{OK: true, Action: "signout"}, "Signed out.")
		},
	}
}

func newAuthWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			user, err := e.auth.CurrentUser(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to check session: %w", err)
			}
			if user == nil {
				return fmt.Errorf("not signed in; run 'mailroom auth signin' first")
			}

			if jsonFlag {
				return fprintJSON(cmd.OutOrStdout(), toJSONUser(user, e.auth.Name()))
			}
			name := user.Email
			if user.DisplayName != "" {
				name = fmt.Sprintf("%s <%s>", user.DisplayName, user.Email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", name, e.auth.Name())
			return nil
		},
	}
}

// readPassword prompts on a terminal without echo. Piped input is read as
// a single line.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
