package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/spf13/cobra"
)

const dateLayout = "Mon, Jan 2, 2006 at 3:04 PM"

func newListCmd() *cobra.Command {
	var folderFlag string
	var labelFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages",
		Long:  "List the current account's messages in a folder (defaults to the inbox), optionally filtered by label. Use --label unread for unread mail only.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				if folderFlag != "" {
					f, err := domain.ParseFolder(folderFlag)
					if err != nil {
						return err
					}
					ctrl.SelectFolder(f)
				}
				if labelFlag != "" {
					ctrl.SetLabelFilter(labelFilter(labelFlag))
				}

				msgs := ctrl.Visible()
				if limitFlag > 0 && len(msgs) > limitFlag {
					msgs = msgs[:limitFlag]
				}

				if jsonFlag {
					return fprintJSON(cmd.OutOrStdout(), toJSONMessageSummaries(msgs))
				}

				if len(msgs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No messages found.")
					return nil
				}

				showTo := ctrl.Folder() == domain.FolderSent || ctrl.Folder() == domain.FolderDrafts
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				if showTo {
					fmt.Fprintln(w, "FLAGS\tTO\tSUBJECT\tDATE\tID")
				} else {
					fmt.Fprintln(w, "FLAGS\tFROM\tSUBJECT\tDATE\tID")
				}
				for _, m := range msgs {
					who := m.From.DisplayName()
					if showTo {
						who = domain.FormatAddressList(m.To)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						flags(m),
						clip(who, 30),
						clip(m.Subject, 50),
						m.Date.Format("Jan 2, 2006"),
						m.ID,
					)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&folderFlag, "folder", "", "folder: inbox, drafts, sent, junk, trash or archive")
	cmd.Flags().StringVar(&labelFlag, "label", "", "only messages with this label (\"unread\" for unread mail)")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "maximum number of messages (0 for all)")
	return cmd
}

// labelFilter maps the --label value to a controller filter.
func labelFilter(s string) string {
	switch strings.ToLower(s) {
	case "", domain.LabelFilterAll:
		return domain.LabelFilterAll
	case "unread":
		return domain.LabelFilterUnread
	}
	return s
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <message-id>",
		Short: "Read a message and mark it as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				ctrl := sess.Controller()
				if !ctrl.Select(args[0]) {
					return fmt.Errorf("message %q not found", args[0])
				}
				m, _ := ctrl.Store().Get(args[0])
				orig, hasOrig := ctrl.Original(m)

				if jsonFlag {
					out := toJSONMessage(&m)
					if hasOrig {
						o := toJSONMessage(&orig)
						out.Original = &o
					}
					return fprintJSON(cmd.OutOrStdout(), out)
				}

				writeMessage(cmd.OutOrStdout(), &m)
				if hasOrig {
					fmt.Fprintln(cmd.OutOrStdout())
					fmt.Fprintln(cmd.OutOrStdout(), "---------- Original message ----------")
					writeMessage(cmd.OutOrStdout(), &orig)
				}
				return nil
			})
		},
	}
}

// writeMessage prints headers, body, attachments and inline replies.
func writeMessage(w io.Writer, m *domain.Message) {
	fmt.Fprintf(w, "From:    %s\n", m.From)
	if len(m.To) > 0 {
		fmt.Fprintf(w, "To:      %s\n", domain.FormatAddressList(m.To))
	}
	fmt.Fprintf(w, "Date:    %s\n", m.Date.Format(dateLayout))
	fmt.Fprintf(w, "Subject: %s\n", m.Subject)
	if len(m.Labels) > 0 {
		fmt.Fprintf(w, "Labels:  %s\n", strings.Join(m.Labels, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, m.Body)

	if len(m.Attachments) > 0 {
		fmt.Fprintf(w, "\nAttachments (%d)\n", len(m.Attachments))
		for _, a := range m.Attachments {
			fmt.Fprintf(w, "  %s  %s\n", a.Name, a.Size)
		}
	}
	for _, r := range m.Replies {
		fmt.Fprintf(w, "\n%s replied on %s:\n%s\n", r.Sender, r.Date.Format(dateLayout), r.Text)
	}
}

func newCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show message counts per folder",
		Long:  "Show per-folder badge counts for the current account: unread mail in the inbox, mail sent in the last day, all mail elsewhere.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(sess *app.Session) error {
				counts := toJSONCounts(sess.Controller().Counts())
				if jsonFlag {
					return fprintJSON(cmd.OutOrStdout(), counts)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "FOLDER\tCOUNT")
				for _, c := range counts {
					fmt.Fprintf(w, "%s\t%d\n", c.Folder, c.Count)
				}
				return w.Flush()
			})
		},
	}
}

// flags renders unread, starred and attachment markers.
func flags(m domain.Message) string {
	var b strings.Builder
	if m.IsRead {
		b.WriteByte(' ')
	} else {
		b.WriteByte('*')
	}
	if m.IsStarred {
		b.WriteByte('S')
	} else {
		b.WriteByte(' ')
	}
	if len(m.Attachments) > 0 {
		b.WriteByte('+')
	} else {
		b.WriteByte(' ')
	}
	return b.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// ago formats t relative to now for the sent log.
func ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return t.Format("Jan 2, 2006")
}
