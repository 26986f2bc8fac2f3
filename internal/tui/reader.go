package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lu-zhengda/mailroom/internal/domain"
)

// Messages emitted by readerModel.

type replyMsg struct {
	message domain.Message
}

type forwardMsg struct {
	message domain.Message
}

type closeReaderMsg struct{}

// readerModel is a Bubble Tea sub-model for displaying a message in a
// scrollable pane.
type readerModel struct {
	message      domain.Message
	original     *domain.Message
	colors       map[string]string
	content      string
	scrollOffset int
	maxScroll    int
	width        int
	height       int
	focused      bool
	visible      bool
}

func newReader() readerModel {
	return readerModel{}
}

func (r readerModel) Update(msg tea.Msg) (readerModel, tea.Cmd) {
	if !r.focused || !r.visible {
		return r, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m := r.message
		switch {
		case key.Matches(msg, keys.Up):
			if r.scrollOffset > 0 {
				r.scrollOffset--
			}

		case key.Matches(msg, keys.Down):
			if r.scrollOffset < r.maxScroll {
				r.scrollOffset++
			}

		case key.Matches(msg, keys.Back):
			return r, func() tea.Msg { return closeReaderMsg{} }

		case key.Matches(msg, keys.Reply):
			return r, func() tea.Msg { return replyMsg{message: m} }

		case key.Matches(msg, keys.Forward):
			return r, func() tea.Msg { return forwardMsg{message: m} }

		case key.Matches(msg, keys.Label):
			return r, func() tea.Msg { return labelPromptMsg{id: m.ID} }

		default:
			if action := actionFor(msg); action != "" {
				return r, func() tea.Msg { return messageActionMsg{id: m.ID, action: action} }
			}
		}
	}

	return r, nil
}

func (r readerModel) View() string {
	if !r.visible || r.width == 0 || r.height == 0 {
		return ""
	}

	lines := strings.Split(r.content, "\n")

	visibleHeight := max(r.height, 1)
	start := min(r.scrollOffset, len(lines))
	end := min(start+visibleHeight, len(lines))

	return strings.Join(lines[start:end], "\n")
}

// Show displays m. original is the message m replied to or forwarded, if
// any. colors maps label names to their colour.
func (r *readerModel) Show(m domain.Message, original *domain.Message, colors map[string]string) {
	if r.message.ID != m.ID {
		r.scrollOffset = 0
	}
	r.message = m
	r.original = original
	r.colors = colors
	r.visible = true
	r.content = renderMessage(m, original, colors, r.width)
	r.recalcMaxScroll()
}

// Close hides the reader and clears its content.
func (r *readerModel) Close() {
	r.visible = false
	r.message = domain.Message{}
	r.original = nil
	r.content = ""
	r.scrollOffset = 0
	r.maxScroll = 0
}

// SetSize updates the reader dimensions and recalculates scroll bounds.
func (r *readerModel) SetSize(w, h int) {
	r.width = w
	r.height = h
	if r.visible {
		r.content = renderMessage(r.message, r.original, r.colors, r.width)
	}
	r.recalcMaxScroll()
}

func (r readerModel) IsVisible() bool {
	return r.visible
}

func (r *readerModel) recalcMaxScroll() {
	if r.content == "" {
		r.maxScroll = 0
		r.scrollOffset = 0
		return
	}

	lines := strings.Count(r.content, "\n") + 1
	r.maxScroll = max(lines-max(r.height, 1), 0)
	if r.scrollOffset > r.maxScroll {
		r.scrollOffset = r.maxScroll
	}
}

func separator(width int) string {
	return mutedTextStyle.Render(strings.Repeat("─", max(width, 20)))
}

// renderMessage formats a message with headers, labels, attachments, body,
// replies and the quoted original.
func renderMessage(m domain.Message, original *domain.Message, colors map[string]string, width int) string {
	var b strings.Builder

	b.WriteString(mutedTextStyle.Render("From:    "))
	b.WriteString(m.From.String())
	b.WriteByte('\n')

	if len(m.To) > 0 {
		b.WriteString(mutedTextStyle.Render("To:      "))
		b.WriteString(domain.FormatAddressList(m.To))
		b.WriteByte('\n')
	}

	b.WriteString(mutedTextStyle.Render("Date:    "))
	b.WriteString(m.Date.Format("Jan 2, 2006 3:04 PM"))
	b.WriteByte('\n')

	b.WriteString(mutedTextStyle.Render("Subject: "))
	b.WriteString(m.Subject)
	if m.IsStarred {
		b.WriteString(starStyle.Render(" ★"))
	}
	b.WriteByte('\n')

	if len(m.Labels) > 0 {
		tags := make([]string, 0, len(m.Labels))
		for _, l := range m.Labels {
			color, ok := colors[l]
			if !ok {
				color = domain.DefaultLabelColor
			}
			tags = append(tags, labelTag(l, color))
		}
		b.WriteString(mutedTextStyle.Render("Labels:  "))
		b.WriteString(strings.Join(tags, " "))
		b.WriteByte('\n')
	}

	b.WriteString(separator(width))
	b.WriteByte('\n')

	if m.Body != "" {
		b.WriteByte('\n')
		b.WriteString(m.Body)
		b.WriteByte('\n')
	}

	if len(m.Attachments) > 0 {
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("Attachments (%d)", len(m.Attachments))))
		b.WriteByte('\n')
		for _, a := range m.Attachments {
			fmt.Fprintf(&b, "  + %s  %s\n", a.Name, mutedTextStyle.Render(a.Size+" · "+a.Type))
		}
	}

	for _, reply := range m.Replies {
		b.WriteByte('\n')
		b.WriteString(separator(width))
		b.WriteByte('\n')
		b.WriteString(successTextStyle.Render(reply.Sender))
		b.WriteString(mutedTextStyle.Render("  " + reply.Date.Format("Jan 2, 2006 3:04 PM")))
		b.WriteByte('\n')
		b.WriteString(reply.Text)
		b.WriteByte('\n')
	}

	if original != nil {
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render("---------- Original message ----------"))
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("From: %s", original.From.String())))
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("Date: %s", original.Date.Format("Jan 2, 2006"))))
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("Subject: %s", original.Subject)))
		b.WriteByte('\n')
		for _, line := range strings.Split(original.Body, "\n") {
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
