package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lu-zhengda/mailroom/internal/domain"
)

type labelSubmitMsg struct {
	id    string
	input string
}

type closePromptMsg struct{}

// labelPromptModel reads "name #color" to tag a message, or "-name" to
// untag it.
type labelPromptModel struct {
	input  textinput.Model
	id     string
	active bool
	width  int
}

func newLabelPrompt() labelPromptModel {
	ti := textinput.New()
	ti.Placeholder = "name #color  (or -name to remove)"
	ti.Prompt = "label: "
	ti.CharLimit = 64
	return labelPromptModel{input: ti}
}

func (p labelPromptModel) Update(msg tea.Msg) (labelPromptModel, tea.Cmd) {
	if !p.active {
		return p, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Back):
			return p, func() tea.Msg { return closePromptMsg{} }
		case key.Matches(msg, keys.Enter):
			id, input := p.id, p.input.Value()
			return p, func() tea.Msg { return labelSubmitMsg{id: id, input: input} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p labelPromptModel) View() string {
	if !p.active {
		return ""
	}
	p.input.Width = max(p.width-10, 10)
	return p.input.View()
}

func (p *labelPromptModel) Open(id string) {
	p.id = id
	p.active = true
	p.input.SetValue("")
	p.input.Focus()
}

func (p *labelPromptModel) Close() {
	p.active = false
	p.id = ""
	p.input.Blur()
}

func (p labelPromptModel) IsActive() bool {
	return p.active
}

// labelEdit is a parsed label prompt.
type labelEdit struct {
	name   string
	color  string
	remove bool
}

// parseLabelInput parses "name", "name #color" or "-name". Names may
// contain spaces; a trailing #hex word is the colour.
func parseLabelInput(s string) (labelEdit, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return labelEdit{}, errors.New("label name is required")
	}

	var e labelEdit
	if last := fields[len(fields)-1]; strings.HasPrefix(last, "#") {
		if !domain.ValidColor(last) {
			return labelEdit{}, fmt.Errorf("invalid colour %q", last)
		}
		e.color = last
		fields = fields[:len(fields)-1]
	}

	name := strings.Join(fields, " ")
	if strings.HasPrefix(name, "-") {
		e.remove = true
		name = strings.TrimSpace(strings.TrimPrefix(name, "-"))
	}
	if name == "" {
		return labelEdit{}, errors.New("label name is required")
	}
	e.name = name
	return e, nil
}
