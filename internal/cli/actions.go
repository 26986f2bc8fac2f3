package cli

import (
	"fmt"
	"io"

	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/mailbox"
	"github.com/spf13/cobra"
)

// newMoveCmd builds a single-message command that applies fn and reports
// done on success.
func newMoveCmd(use, short, action, done string, fn func(ctrl *mailbox.Controller, id string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <message-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				if !fn(ctrl, args[0]) {
					return refused(ctrl, action, args[0])
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: action, MessageID: args[0]}, done)
			})
		},
	}
}

// refused explains why an action on id did nothing.
func refused(ctrl *mailbox.Controller, action, id string) error {
	m, ok := ctrl.Store().Get(id)
	if !ok {
		return fmt.Errorf("message %q not found", id)
	}
	return fmt.Errorf("cannot %s message %q in %s", action, id, m.Folder)
}

func newArchiveCmd() *cobra.Command {
	return newMoveCmd("archive", "Move a message to the archive", "archive", "Mail archived.",
		func(ctrl *mailbox.Controller, id string) bool { return ctrl.Archive(id) })
}

func newRestoreCmd() *cobra.Command {
	return newMoveCmd("restore", "Move a message back to the inbox", "restore", "Mail restored to inbox.",
		func(ctrl *mailbox.Controller, id string) bool { return ctrl.Restore(id) })
}

func newJunkCmd() *cobra.Command {
	return newMoveCmd("junk", "Move a message to junk", "junk", "Mail moved to junk.",
		func(ctrl *mailbox.Controller, id string) bool { return ctrl.MoveToJunk(id) })
}

func newUnreadCmd() *cobra.Command {
	return newMoveCmd("unread", "Mark a message as unread", "unread", "Marked as unread.",
		func(ctrl *mailbox.Controller, id string) bool { return ctrl.MarkUnread(id) })
}

func newStarCmd() *cobra.Command {
	return newMoveCmd("star", "Star or unstar a message", "star", "Star toggled.",
		func(ctrl *mailbox.Controller, id string) bool { return ctrl.ToggleStar(id) })
}

func newTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash <message-id>",
		Short: "Move a message to trash",
		Long:  "Move a message to trash. A message that is already in the trash is deleted permanently.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				m, ok := ctrl.Store().Get(args[0])
				if !ok {
					return fmt.Errorf("message %q not found", args[0])
				}
				permanent := m.Folder == domain.FolderTrash
				if permanent {
					ctrl.SelectFolder(domain.FolderTrash)
				}
				if !ctrl.Delete(m.ID) {
					return refused(ctrl, "trash", m.ID)
				}

				if permanent {
					return printAction(cmd.OutOrStdout(),
						jsonAction{OK: true, Action: "delete", MessageID: m.ID}, "Mail permanently deleted.")
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "trash", MessageID: m.ID}, "Mail moved to trash.")
			})
		},
	}
}

func newReplyCmd() *cobra.Command {
	var bodyFlag string

	cmd := &cobra.Command{
		Use:   "reply <message-id>",
		Short: "Reply to a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd, bodyFlag)
			if err != nil {
				return err
			}

			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				if !ctrl.Store().Has(args[0]) {
					return fmt.Errorf("message %q not found", args[0])
				}
				sent, ok := ctrl.SendReply(args[0], body)
				if !ok {
					return fmt.Errorf("reply text is required")
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "reply", MessageID: sent.ID, Email: domain.FormatAddressList(sent.To)},
					"Reply sent!")
			})
		},
	}

	cmd.Flags().StringVar(&bodyFlag, "body", "", "reply body (use '-' to read from stdin)")
	return cmd
}

func newForwardCmd() *cobra.Command {
	var toFlag, subjectFlag, bodyFlag string

	cmd := &cobra.Command{
		Use:   "forward <message-id>",
		Short: "Forward a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd, bodyFlag)
			if err != nil {
				return err
			}

			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				orig, ok := ctrl.Store().Get(args[0])
				if !ok {
					return fmt.Errorf("message %q not found", args[0])
				}
				subject := subjectFlag
				if subject == "" {
					subject = domain.ForwardSubject(orig.Subject)
				}
				sent, ok := ctrl.Forward(toFlag, subject, body, orig.ID)
				if !ok {
					return fmt.Errorf("recipient, subject and body are required")
				}
				return printAction(cmd.OutOrStdout(),
					jsonAction{OK: true, Action: "forward", MessageID: sent.ID, Email: toFlag},
					"Mail forwarded and sent!")
			})
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "recipient addresses (comma-separated)")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "subject (defaults to \"Fwd: \" plus the original subject)")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "message body (use '-' to read from stdin)")
	return cmd
}

// readBody resolves a --body value, reading stdin for "-".
func readBody(cmd *cobra.Command, body string) (string, error) {
	if body != "-" {
		return body, nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read body from stdin: %w", err)
	}
	return string(b), nil
}
