package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/mailroom/internal/domain"
)

// composerMode describes the kind of composition taking place.
type composerMode int

const (
	modeCompose composerMode = iota
	modeReply
	modeForward
	modeDraft
)

// Messages emitted by composerModel.

// draft is the composer's content at the moment the user submits it.
type draft struct {
	mode     composerMode
	targetID string
	to       string
	subject  string
	body     string
}

type sendMsg struct {
	draft draft
}

type saveDraftMsg struct {
	draft draft
}

type cancelComposeMsg struct{}

// Field indices within the composer form.
const (
	fieldTo      = 0
	fieldSubject = 1
	fieldBody    = 2
	fieldCount   = 3
)

// composerModel is a Bubble Tea sub-model for composing, replying,
// forwarding and editing drafts.
type composerModel struct {
	toInput      textinput.Model
	subjectInput textinput.Model
	bodyInput    textarea.Model

	activeField int
	mode        composerMode
	targetID    string

	width   int
	height  int
	visible bool
}

func newComposer() composerModel {
	to := textinput.New()
	to.Placeholder = "recipient@example.com"
	to.CharLimit = 500
	to.Prompt = ""

	subject := textinput.New()
	subject.Placeholder = "Subject"
	subject.CharLimit = 200
	subject.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Write your message..."
	body.SetWidth(40)
	body.SetHeight(6)
	body.CharLimit = 0

	return composerModel{
		toInput:      to,
		subjectInput: subject,
		bodyInput:    body,
	}
}

func (c composerModel) Update(msg tea.Msg) (composerModel, tea.Cmd) {
	if !c.visible {
		return c, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			c.nextField()
			return c, nil

		case "esc":
			return c, func() tea.Msg { return cancelComposeMsg{} }

		case "ctrl+s":
			d := c.Draft()
			return c, func() tea.Msg { return sendMsg{draft: d} }

		case "ctrl+d":
			d := c.Draft()
			return c, func() tea.Msg { return saveDraftMsg{draft: d} }
		}
	}

	var cmd tea.Cmd
	switch c.activeField {
	case fieldTo:
		c.toInput, cmd = c.toInput.Update(msg)
	case fieldSubject:
		c.subjectInput, cmd = c.subjectInput.Update(msg)
	case fieldBody:
		c.bodyInput, cmd = c.bodyInput.Update(msg)
	}

	return c, cmd
}

// View renders the compose form inside a bordered box.
func (c composerModel) View() string {
	if !c.visible {
		return ""
	}

	innerWidth := max(c.width-4, 20)
	inputWidth := max(innerWidth-10, 10)

	c.toInput.Width = inputWidth
	c.subjectInput.Width = inputWidth
	c.bodyInput.SetWidth(innerWidth)
	c.bodyInput.SetHeight(max(c.height-9, 3))

	toLabel := mutedTextStyle.Render(fmt.Sprintf("%-9s", "To:"))
	subjectLabel := mutedTextStyle.Render(fmt.Sprintf("%-9s", "Subject:"))

	to := c.toInput.View()
	if !c.editable(fieldTo) {
		to = c.toInput.Value()
	}
	subject := c.subjectInput.View()
	if !c.editable(fieldSubject) {
		subject = c.subjectInput.Value()
	}

	rows := []string{
		toLabel + to,
		subjectLabel + subject,
		mutedTextStyle.Render(strings.Repeat("─", innerWidth)),
		c.bodyInput.View(),
		"",
		mutedTextStyle.Render(c.helpText()),
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(0, 1).
		Width(c.width - 2)

	header := titleStyle.Render(" " + c.modeTitle() + " ")

	return header + "\n" + boxStyle.Render(strings.Join(rows, "\n"))
}

// Compose opens the composer for a new message, clearing all fields.
func (c *composerModel) Compose() {
	c.open(modeCompose, "")
	c.activeField = fieldTo
	c.updateFocus()
}

// Reply opens the composer to answer m. Only the body is editable.
func (c *composerModel) Reply(m domain.Message) {
	c.open(modeReply, m.ID)
	c.toInput.SetValue(m.From.String())
	c.subjectInput.SetValue(domain.ReplySubject(m.Subject))
	c.activeField = fieldBody
	c.updateFocus()
}

// Forward opens the composer pre-filled with m quoted below the cursor.
func (c *composerModel) Forward(m domain.Message) {
	c.open(modeForward, m.ID)
	c.subjectInput.SetValue(domain.ForwardSubject(m.Subject))
	c.bodyInput.SetValue(formatForwardBody(m))
	c.activeField = fieldTo
	c.updateFocus()
}

// EditDraft opens an existing draft. Its recipients are fixed.
func (c *composerModel) EditDraft(m domain.Message) {
	c.open(modeDraft, m.ID)
	c.toInput.SetValue(domain.FormatAddressList(m.To))
	c.subjectInput.SetValue(m.Subject)
	c.bodyInput.SetValue(m.Body)
	c.activeField = fieldBody
	c.updateFocus()
}

func (c *composerModel) open(mode composerMode, targetID string) {
	c.mode = mode
	c.targetID = targetID
	c.clearFields()
	c.visible = true
}

// Close hides the composer and clears all fields.
func (c *composerModel) Close() {
	c.visible = false
	c.targetID = ""
	c.clearFields()
}

func (c *composerModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

func (c composerModel) IsVisible() bool {
	return c.visible
}

// Draft snapshots the current field values.
func (c composerModel) Draft() draft {
	return draft{
		mode:     c.mode,
		targetID: c.targetID,
		to:       strings.TrimSpace(c.toInput.Value()),
		subject:  c.subjectInput.Value(),
		body:     c.bodyInput.Value(),
	}
}

// --- internal helpers ---

func (c *composerModel) clearFields() {
	c.toInput.SetValue("")
	c.subjectInput.SetValue("")
	c.bodyInput.SetValue("")
}

// editable reports whether field accepts input in the current mode.
func (c composerModel) editable(field int) bool {
	switch c.mode {
	case modeReply:
		return field == fieldBody
	case modeDraft:
		return field != fieldTo
	}
	return true
}

func (c *composerModel) nextField() {
	for i := 0; i < fieldCount; i++ {
		c.activeField = (c.activeField + 1) % fieldCount
		if c.editable(c.activeField) {
			break
		}
	}
	c.updateFocus()
}

func (c *composerModel) updateFocus() {
	c.toInput.Blur()
	c.subjectInput.Blur()
	c.bodyInput.Blur()

	switch c.activeField {
	case fieldTo:
		c.toInput.Focus()
	case fieldSubject:
		c.subjectInput.Focus()
	case fieldBody:
		c.bodyInput.Focus()
	}
}

func (c composerModel) modeTitle() string {
	switch c.mode {
	case modeReply:
		return "Reply"
	case modeForward:
		return "Forward"
	case modeDraft:
		return "Edit Draft"
	default:
		return "New Message"
	}
}

func (c composerModel) helpText() string {
	if c.mode == modeReply {
		return "Ctrl+S:send  Ctrl+D:save as draft  Esc:cancel"
	}
	return "Tab:fields  Ctrl+S:send  Ctrl+D:save draft  Esc:cancel"
}

// formatForwardBody builds the forwarded message body.
func formatForwardBody(m domain.Message) string {
	var b strings.Builder
	b.WriteString("\n---------- Forwarded message ----------\n")
	fmt.Fprintf(&b, "From: %s\n", m.From.String())
	fmt.Fprintf(&b, "Date: %s\n", m.Date.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
	b.WriteString("\n")
	b.WriteString(m.Body)
	return b.String()
}
