package cli

import (
	"fmt"

	"github.com/lu-zhengda/mailroom/internal/provider/gmail"
	"github.com/spf13/cobra"
)

func newGmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Connect a Google account for sending and import",
	}
	cmd.AddCommand(newGmailLoginCmd())
	cmd.AddCommand(newGmailImportCmd())
	return cmd
}

// gmailClient configures OAuth credentials from e and returns a client
// backed by e's token store.
func gmailClient(e *env) (*gmail.Client, error) {
	gmail.SetCredentials(e.cfg.Gmail.ClientID, e.cfg.Gmail.ClientSecret)
	if err := gmail.EnsureCredentials(); err != nil {
		return nil, err
	}
	return gmail.New(e.tokens), nil
}

func newGmailLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize mailroom to send and read Gmail",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			client, err := gmailClient(e)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			fmt.Fprintln(cmd.ErrOrStderr(), "Starting Gmail OAuth flow...")
			if err := client.Authenticate(ctx, cmd.ErrOrStderr()); err != nil {
				return err
			}
			email, err := client.GetProfile(ctx)
			if err != nil {
				return err
			}
			return printAction(cmd.OutOrStdout(),
				jsonAction{OK: true, Action: "gmail-login", Email: email},
				fmt.Sprintf("Gmail connected: %s", email))
		},
	}
}

func newGmailImportCmd() *cobra.Command {
	var queryFlag string
	var maxFlag int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy recent Gmail messages into the current account",
		Long:  "Copy recent Gmail messages into the current account. This is a one-shot copy; later changes on either side are not synced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			client, err := gmailClient(e)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := e.session(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			accountID := sess.Controller().CurrentAccountID()
			msgs, err := client.Import(ctx, accountID, queryFlag, maxFlag)
			if err != nil {
				return err
			}
			added := sess.Import(msgs)
			if err := sess.Save(ctx); err != nil {
				return err
			}

			return printAction(cmd.OutOrStdout(),
				jsonAction{OK: true, Action: "import", AccountID: accountID},
				fmt.Sprintf("Imported %d of %d messages into %s.", added, len(msgs), accountID))
		},
	}

	cmd.Flags().StringVar(&queryFlag, "query", "in:inbox", "Gmail search query")
	cmd.Flags().IntVar(&maxFlag, "max", 50, "maximum number of messages")
	return cmd
}
