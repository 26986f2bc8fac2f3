package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/mailroom/internal/domain"
)

// Messages emitted by inboxModel.

type messageSelectedMsg struct {
	id string
}

type messageActionMsg struct {
	id     string
	action string
}

// labelPromptMsg asks the root model to open the label prompt for id.
type labelPromptMsg struct {
	id string
}

// inboxModel is a Bubble Tea sub-model that displays the message list.
type inboxModel struct {
	messages []domain.Message
	colors   map[string]string
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool
	now      func() time.Time
}

func newInbox() inboxModel {
	return inboxModel{now: time.Now}
}

func (m inboxModel) Update(msg tea.Msg) (inboxModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.messages)-1 {
				m.cursor++
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Enter):
			id := m.SelectedID()
			if id == "" {
				return m, nil
			}
			return m, func() tea.Msg { return messageSelectedMsg{id: id} }

		case key.Matches(msg, keys.Label):
			id := m.SelectedID()
			if id == "" {
				return m, nil
			}
			return m, func() tea.Msg { return labelPromptMsg{id: id} }

		default:
			if action := actionFor(msg); action != "" {
				return m, m.actionCmd(action)
			}
		}
	}

	return m, nil
}

// actionFor maps the per-message keys shared by the list and the reader.
func actionFor(msg tea.KeyMsg) string {
	switch {
	case key.Matches(msg, keys.Archive):
		return "archive"
	case key.Matches(msg, keys.Delete):
		return "delete"
	case key.Matches(msg, keys.Restore):
		return "restore"
	case key.Matches(msg, keys.Junk):
		return "junk"
	case key.Matches(msg, keys.Star):
		return "star"
	case key.Matches(msg, keys.Unread):
		return "unread"
	}
	return ""
}

func (m inboxModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if len(m.messages) == 0 {
		return mutedTextStyle.Render("No messages")
	}

	var b strings.Builder
	end := min(m.offset+m.visibleRows(), len(m.messages))

	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		line := m.renderRow(i)
		if i == m.cursor && m.focused {
			line = selectedStyle.Width(m.width).Render(line)
		}
		b.WriteString(line)
	}

	return b.String()
}

// SetMessages replaces the list. colors maps label names to their colour.
func (m *inboxModel) SetMessages(msgs []domain.Message, colors map[string]string) {
	m.messages = msgs
	m.colors = colors
	m.clampCursor()
}

func (m *inboxModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.adjustScroll()
}

// Reset moves the cursor back to the top.
func (m *inboxModel) Reset() {
	m.cursor = 0
	m.offset = 0
}

// SelectedID returns the ID of the highlighted message.
func (m inboxModel) SelectedID() string {
	if len(m.messages) == 0 || m.cursor >= len(m.messages) {
		return ""
	}
	return m.messages[m.cursor].ID
}

// --- internal helpers ---

func (m inboxModel) visibleRows() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

func (m *inboxModel) adjustScroll() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *inboxModel) clampCursor() {
	count := len(m.messages)
	if count == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= count {
		m.cursor = count - 1
	}
	m.adjustScroll()
}

func (m inboxModel) actionCmd(action string) tea.Cmd {
	id := m.SelectedID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return messageActionMsg{id: id, action: action}
	}
}

func (m inboxModel) renderRow(idx int) string {
	if idx >= len(m.messages) {
		return ""
	}
	e := m.messages[idx]

	star := "  "
	if e.IsStarred {
		star = starStyle.Render("★ ")
	}
	clip := "  "
	if len(e.Attachments) > 0 {
		clip = mutedTextStyle.Render("+ ")
	}

	from := e.From.DisplayName()
	if e.Folder == domain.FolderSent || e.Folder == domain.FolderDrafts {
		from = "To: " + domain.FormatAddressList(e.To)
	}
	date := relativeDate(e.Date, m.now())

	var tags []string
	for _, l := range e.Labels {
		color, ok := m.colors[l]
		if !ok {
			color = domain.DefaultLabelColor
		}
		tags = append(tags, labelTag(l, color))
	}
	tagCol := strings.Join(tags, " ")

	fromWidth := 18
	dateWidth := len(date)
	tagWidth := lipgloss.Width(tagCol)
	subjectWidth := m.width - fromWidth - dateWidth - tagWidth - 8 // star(2) + clip(2) + two "  " gaps(4)
	if tagWidth > 0 {
		subjectWidth--
	}
	if subjectWidth < 10 {
		subjectWidth = 10
	}

	from = truncate(from, fromWidth)
	subject := truncate(e.Subject, subjectWidth)

	fromCol := lipgloss.NewStyle().Width(fromWidth).Render(from)
	subjectCol := lipgloss.NewStyle().Width(subjectWidth).Render(subject)
	dateCol := mutedTextStyle.Width(dateWidth).Render(date)

	line := star + clip + fromCol + "  " + subjectCol
	if tagCol != "" {
		line += " " + tagCol
	}
	line += "  " + dateCol

	if !e.IsRead {
		line = unreadStyle.Render(line)
	}

	return line
}

// --- utility functions ---

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func relativeDate(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
