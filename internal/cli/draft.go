package cli

import (
	"fmt"

	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/spf13/cobra"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Write, edit and send drafts",
	}
	cmd.AddCommand(newDraftNewCmd())
	cmd.AddCommand(newDraftSaveCmd())
	cmd.AddCommand(newDraftSendCmd())
	return cmd
}

func newDraftNewCmd() *cobra.Command {
	var toFlag, subjectFlag, bodyFlag string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Save a new draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd, bodyFlag)
			if err != nil {
				return err
			}

			return withSession(cmd.Context(), func(sess *app.Session) error {
				d, ok := sess.Controller().SaveNewDraft(toFlag, subjectFlag, body)
				if !ok {
					return fmt.Errorf("a draft needs a subject or a body")
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "draft", MessageID: d.ID},
					fmt.Sprintf("Draft saved: %s", d.ID))
			})
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "recipient addresses (comma-separated)")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "subject")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "draft body (use '-' to read from stdin)")
	return cmd
}

// draftContent returns the subject and body to write to draft id: flags
// that were given replace the stored values.
func draftContent(cmd *cobra.Command, sess *app.Session, id, subjectFlag, bodyFlag string) (string, string, error) {
	m, ok := sess.Controller().Store().Get(id)
	if !ok || m.Folder != domain.FolderDrafts {
		return "", "", fmt.Errorf("draft %q not found", id)
	}
	subject, body := m.Subject, m.Body
	if cmd.Flags().Changed("subject") {
		subject = subjectFlag
	}
	if cmd.Flags().Changed("body") {
		b, err := readBody(cmd, bodyFlag)
		if err != nil {
			return "", "", err
		}
		body = b
	}
	return subject, body, nil
}

func newDraftSaveCmd() *cobra.Command {
	var subjectFlag, bodyFlag string

	cmd := &cobra.Command{
		Use:   "save <draft-id>",
		Short: "Update a draft's subject or body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				subject, body, err := draftContent(cmd, sess, args[0], subjectFlag, bodyFlag)
				if err != nil {
					return err
				}
				sess.Controller().SaveDraft(args[0], subject, body)
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "draft", MessageID: args[0]}, "Draft saved!")
			})
		},
	}

	cmd.Flags().StringVar(&subjectFlag, "subject", "", "new subject")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "new body (use '-' to read from stdin)")
	return cmd
}

func newDraftSendCmd() *cobra.Command {
	var subjectFlag, bodyFlag string

	cmd := &cobra.Command{
		Use:   "send <draft-id>",
		Short: "Send a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				subject, body, err := draftContent(cmd, sess, args[0], subjectFlag, bodyFlag)
				if err != nil {
					return err
				}
				sent, _ := sess.Controller().SendDraft(args[0], subject, body)
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "send", MessageID: sent.ID, Email: domain.FormatAddressList(sent.To)},
					"Mail sent!")
			})
		},
	}

	cmd.Flags().StringVar(&subjectFlag, "subject", "", "final subject")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "final body (use '-' to read from stdin)")
	return cmd
}
