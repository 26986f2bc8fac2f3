package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/spf13/cobra"
)

func newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}
	cmd.AddCommand(newLabelListCmd())
	cmd.AddCommand(newLabelAddCmd())
	cmd.AddCommand(newLabelRemoveCmd())
	cmd.AddCommand(newLabelColorCmd())
	cmd.AddCommand(newLabelDeleteCmd())
	return cmd
}

func newLabelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labels and their colours",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				labels := sess.Controller().Labels().List()

				if jsonFlag {
					return fprintJSON(cmd.OutOrStdout(), toJSONLabels(labels))
				}

				if len(labels) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No labels.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tCOLOR")
				for _, l := range labels {
					fmt.Fprintf(w, "%s\t%s\n", l.Name, l.Color)
				}
				return w.Flush()
			})
		},
	}
}

func newLabelAddCmd() *cobra.Command {
	var colorFlag string

	cmd := &cobra.Command{
		Use:   "add <message-id> <label>",
		Short: "Tag a message with a label, creating the label if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if colorFlag != "" && !domain.ValidColor(colorFlag) {
				return fmt.Errorf("invalid colour %q (use #rgb or #rrggbb)", colorFlag)
			}
			name := strings.TrimSpace(args[1])
			if name == "" {
				return fmt.Errorf("label name is required")
			}

			return withSession(cmd.Context(), func(sess *app.Session) error {
				if !sess.Controller().AddLabel(name, colorFlag, args[0]) {
					return fmt.Errorf("message %q not found", args[0])
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "label", MessageID: args[0], Label: name},
					fmt.Sprintf("Label '%s' added!", name))
			})
		},
	}

	cmd.Flags().StringVar(&colorFlag, "color", "", "colour for a new label (#rrggbb)")
	return cmd
}

func newLabelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <message-id> <label>",
		Short: "Remove a label from one message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				if !sess.Controller().RemoveLabel(args[1], args[0]) {
					return fmt.Errorf("message %q does not have label %q", args[0], args[1])
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "unlabel", MessageID: args[0], Label: args[1]},
					fmt.Sprintf("Label '%s' removed!", args[1]))
			})
		},
	}
}

func newLabelColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <label> <#rrggbb>",
		Short: "Change a label's colour",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.ValidColor(args[1]) {
				return fmt.Errorf("invalid colour %q (use #rgb or #rrggbb)", args[1])
			}

			return withSession(cmd.Context(), func(sess *app.Session) error {
				if !sess.Controller().SetLabelColor(args[0], args[1]) {
					return fmt.Errorf("label %q not found", args[0])
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "color", Label: args[0]},
					fmt.Sprintf("Label '%s' is now %s.", args[0], args[1]))
			})
		},
	}
}

func newLabelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <label>",
		Short: "Delete a label and remove it from every message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				if !sess.Controller().DeleteLabel(args[0]) {
					return fmt.Errorf("label %q not found", args[0])
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "delete-label", Label: args[0]},
					fmt.Sprintf("Label '%s' deleted.", args[0]))
			})
		},
	}
}
