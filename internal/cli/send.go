package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/lu-zhengda/mailroom/internal/provider"
	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	var toFlag, subjectFlag, bodyFlag string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a new email through the configured transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd, bodyFlag)
			if err != nil {
				return err
			}
			out := provider.OutboundMail{To: toFlag, Subject: subjectFlag, Body: body}
			if err := provider.Validate(out); err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			sess, err := e.session(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			svc, err := e.sendService(ctx, sess)
			if err != nil {
				return err
			}
			if err := svc.Send(ctx, out); err != nil {
				return err
			}

			return printAction(cmd.OutOrStdout(),
				jsonAction{OK: true, Action: "send", Email: toFlag},
				fmt.Sprintf("Mail sent to %s!", toFlag))
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "recipient addresses (comma-separated)")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "email subject")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "email body (use '-' to read from stdin)")
	return cmd
}

func newSentCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "sent",
		Short: "Show mail delivered through the transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			sess, err := e.session(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			svc, err := e.sendService(ctx, sess)
			if err != nil {
				return err
			}
			recs, err := svc.History(ctx, limitFlag)
			if err != nil {
				return err
			}

			if jsonFlag {
				return fprintJSON(cmd.OutOrStdout(), toJSONSent(recs))
			}

			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing sent yet.")
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TO\tSUBJECT\tSENT")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", clip(r.ToEmail, 30), clip(r.Subject, 50), ago(r.SentAt, now))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "maximum number of records")
	return cmd
}
