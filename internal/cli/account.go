package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage mailbox accounts",
	}
	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountSwitchCmd())
	cmd.AddCommand(newAccountRenameCmd())
	cmd.AddCommand(newAccountRemoveCmd())
	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				accounts := ctrl.Accounts().List()

				if jsonFlag {
					return fprintJSON(cmd.OutOrStdout(), toJSONAccounts(accounts, ctrl.CurrentAccountID()))
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CURRENT\tID\tLABEL\tEMAIL")
				for _, a := range accounts {
					current := " "
					if a.ID == ctrl.CurrentAccountID() {
						current = "*"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, a.ID, a.Label, a.Email)
				}
				return w.Flush()
			})
		},
	}
}

func newAccountSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <account-id>",
		Short: "Make an account the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				if !ctrl.SwitchAccount(args[0]) {
					return fmt.Errorf("account %q not found", args[0])
				}
				acc, _ := ctrl.CurrentAccount()
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "switch", AccountID: acc.ID, Email: acc.Email},
					fmt.Sprintf("Switched to %s.", acc.Label))
			})
		},
	}
}

func newAccountRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account-id> <label>",
		Short: "Change the label shown for an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				if !sess.Controller().Accounts().Rename(args[0], args[1]) {
					return fmt.Errorf("account %q not found", args[0])
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "rename", AccountID: args[0]},
					fmt.Sprintf("Account renamed to %s.", args[1]))
			})
		},
	}
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <account-id>",
		Short: "Remove an account from the switcher",
		Long:  "Remove an account from the switcher. Its messages stay in storage but are no longer shown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				id := args[0]
				if id == sess.User().ID {
					return fmt.Errorf("cannot remove the signed-in user's own account")
				}
				if !sess.Controller().Accounts().Delete(id) {
					return fmt.Errorf("account %q not found", id)
				}
				if err := sess.Store().DeleteAccount(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete account: %w", err)
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "remove", AccountID: id},
					fmt.Sprintf("Account removed: %s", id))
			})
		},
	}
}
