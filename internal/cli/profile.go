package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/lu-zhengda/mailroom/internal/store"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
	}
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileSetCmd())
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				p := sess.Profile(cmd.Context())
				if jsonFlag {
					return fprintJSON(cmd.OutOrStdout(), toJSONProfile(p))
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Email:\t%s\n", sess.User().Email)
				fmt.Fprintf(w, "Full name:\t%s\n", p.FullName)
				fmt.Fprintf(w, "Username:\t%s\n", p.Username)
				fmt.Fprintf(w, "Bio:\t%s\n", p.Bio)
				fmt.Fprintf(w, "Avatar:\t%s\n", p.AvatarURL)
				return w.Flush()
			})
		},
	}
}

func newProfileSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change a profile field (full_name, username, bio, avatar_url)",
		Long:  "Change a profile field. Changing full_name also renames your account in the switcher.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := store.ProfileField(args[0])
			if !field.Valid() {
				return fmt.Errorf("unknown profile field %q (use full_name, username, bio or avatar_url)", args[0])
			}
			return withSession(cmd.Context(), func(sess *app.Session) error {
				if err := sess.UpdateProfile(cmd.Context(), field, args[1]); err != nil {
					return err
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "profile", AccountID: sess.User().ID},
					"Profile updated successfully!")
			})
		},
	}
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change notification and privacy settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			s := app.LoadSettings(cmd.Context(), db)
			if jsonFlag {
				return fprintJSON(cmd.OutOrStdout(), s)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "email_notifications\t%t\n", s.EmailNotifications)
			fmt.Fprintf(w, "push_notifications\t%t\n", s.PushNotifications)
			fmt.Fprintf(w, "marketing_emails\t%t\n", s.MarketingEmails)
			fmt.Fprintf(w, "security_alerts\t%t\n", s.SecurityAlerts)
			fmt.Fprintf(w, "profile_visibility\t%s\n", s.ProfileVisibility)
			fmt.Fprintf(w, "show_email\t%t\n", s.ShowEmail)
			fmt.Fprintf(w, "show_online_status\t%t\n", s.ShowOnlineStatus)
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			s := app.LoadSettings(cmd.Context(), db)
			if err := s.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := app.SaveSettings(cmd.Context(), db, s); err != nil {
				return err
			}
			return printAction(cmd.OutOrStdout(), jsonAction{OK: true, Action: "settings"}, "Settings saved!")
		},
	})
	return cmd
}
