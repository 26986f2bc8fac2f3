package gmail

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/lu-zhengda/mailroom/internal/domain"
)

// mapMessage converts a Gmail API message into a mailbox record owned by
// accountID. labelNames resolves user label IDs; system labels other than
// the folder ones are dropped.
func mapMessage(msg *gmailapi.Message, accountID string, labelNames map[string]string) domain.Message {
	var headers []*gmailapi.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	date := parseDate(findHeader(headers, "Date"))
	if date.IsZero() && msg.InternalDate > 0 {
		date = time.UnixMilli(msg.InternalDate).UTC()
	}

	var labels []string
	for _, id := range msg.LabelIds {
		if name, ok := labelNames[id]; ok {
			labels = append(labels, strings.ToLower(name))
		}
	}
	sort.Strings(labels)

	return domain.Message{
		ID:          "gmail-" + msg.Id,
		AccountID:   accountID,
		From:        domain.ParseAddress(findHeader(headers, "From")),
		To:          domain.ParseAddressList(findHeader(headers, "To")),
		Subject:     findHeader(headers, "Subject"),
		Body:        extractText(msg.Payload),
		Date:        date,
		IsRead:      !containsLabel(msg.LabelIds, "UNREAD"),
		IsStarred:   containsLabel(msg.LabelIds, "STARRED"),
		Labels:      labels,
		Folder:      folderFor(msg.LabelIds),
		Attachments: extractAttachments(msg.Payload),
	}
}

// folderFor picks the single folder a message lives in. Trash and spam win
// over everything else; messages with no folder label are archived.
func folderFor(labelIDs []string) domain.Folder {
	for _, c := range []struct {
		label  string
		folder domain.Folder
	}{
		{"TRASH", domain.FolderTrash},
		{"SPAM", domain.FolderJunk},
		{"DRAFT", domain.FolderDrafts},
		{"SENT", domain.FolderSent},
		{"INBOX", domain.FolderInbox},
	} {
		if containsLabel(labelIDs, c.label) {
			return c.folder
		}
	}
	return domain.FolderArchive
}

// findHeader performs a case-insensitive lookup for a header value.
func findHeader(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// parseDate tries multiple date formats commonly used in email headers.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		"2 Jan 2006 15:04:05 -0700",
		time.RFC3339,
		"Mon, 02 Jan 2006 15:04:05 -0700 (MST)",
		"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// extractText returns the first text/plain leaf of the payload.
func extractText(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}
	for _, part := range payload.Parts {
		if t := extractText(part); t != "" {
			return t
		}
	}
	if payload.MimeType == "text/plain" && payload.Filename == "" && payload.Body != nil {
		return decodeBase64URL(payload.Body.Data)
	}
	return ""
}

func extractAttachments(payload *gmailapi.MessagePart) []domain.Attachment {
	if payload == nil {
		return nil
	}
	var attachments []domain.Attachment
	collectAttachments(payload, &attachments)
	return attachments
}

func collectAttachments(part *gmailapi.MessagePart, attachments *[]domain.Attachment) {
	if part.Filename != "" && part.Body != nil {
		*attachments = append(*attachments, domain.Attachment{
			Name: part.Filename,
			Size: formatSize(part.Body.Size),
			Type: part.MimeType,
		})
	}
	for _, p := range part.Parts {
		collectAttachments(p, attachments)
	}
}

// formatSize renders a byte count the way attachment sizes are displayed.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// decodeBase64URL decodes Gmail's URL-safe base64 strings, with or without padding.
func decodeBase64URL(s string) string {
	if s == "" {
		return ""
	}
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return ""
	}
	return string(data)
}
