package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/mailroom/internal/domain"
)

// Messages emitted by searchModel.

type searchQueryMsg struct {
	query string
}

type searchResultSelectedMsg struct {
	id string
}

type closeSearchMsg struct{}

// searchModel finds messages in the current list by a plain substring
// match on sender, subject and body. Nothing is indexed.
type searchModel struct {
	input     textinput.Model
	results   []domain.Message
	cursor    int
	searching bool
	inputMode bool
	width     int
	height    int
}

func newSearch() searchModel {
	ti := textinput.New()
	ti.Placeholder = "Find in this list..."
	ti.Prompt = "/ "
	ti.CharLimit = 256
	return searchModel{
		input:     ti,
		inputMode: true,
	}
}

func (s searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd) {
	if !s.searching {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			return s, func() tea.Msg { return closeSearchMsg{} }

		case key.Matches(msg, keys.Enter):
			if s.inputMode {
				query := strings.TrimSpace(s.input.Value())
				if query == "" {
					return s, nil
				}
				s.inputMode = false
				s.input.Blur()
				return s, func() tea.Msg { return searchQueryMsg{query: query} }
			}
			if s.cursor < len(s.results) {
				id := s.results[s.cursor].ID
				return s, func() tea.Msg { return searchResultSelectedMsg{id: id} }
			}
			return s, nil

		case !s.inputMode && key.Matches(msg, keys.Search):
			s.inputMode = true
			s.input.Focus()
			return s, nil

		case !s.inputMode && key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil

		case !s.inputMode && key.Matches(msg, keys.Down):
			if s.cursor < len(s.results)-1 {
				s.cursor++
			}
			return s, nil
		}
	}

	if s.inputMode {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s searchModel) View() string {
	if !s.searching {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	if s.inputMode && len(s.results) == 0 {
		b.WriteString(mutedTextStyle.Render("Type a query and press Enter"))
		return b.String()
	}
	if len(s.results) == 0 {
		b.WriteString(mutedTextStyle.Render("No matches"))
		return b.String()
	}

	b.WriteString(mutedTextStyle.Render(fmt.Sprintf("%d matches", len(s.results))))
	b.WriteString("\n")
	rows := max(s.height-4, 1)
	start := 0
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	end := min(start+rows, len(s.results))
	for i := start; i < end; i++ {
		m := s.results[i]
		line := truncate(m.From.DisplayName(), 18)
		line = lipgloss.NewStyle().Width(20).Render(line) + truncate(m.Subject, max(s.width-22, 10))
		if !m.IsRead {
			line = unreadStyle.Render(line)
		}
		if i == s.cursor && !s.inputMode {
			line = selectedStyle.Width(s.width).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *searchModel) Open() {
	s.searching = true
	s.inputMode = true
	s.results = nil
	s.cursor = 0
	s.input.SetValue("")
	s.input.Focus()
}

func (s *searchModel) Close() {
	s.searching = false
	s.results = nil
	s.input.Blur()
}

func (s *searchModel) SetResults(results []domain.Message) {
	s.results = results
	s.cursor = 0
}

func (s *searchModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

func (s searchModel) IsActive() bool {
	return s.searching
}

// findMessages returns the messages whose sender, subject or body contain
// query, ignoring case.
func findMessages(msgs []domain.Message, query string) []domain.Message {
	q := strings.ToLower(query)
	var out []domain.Message
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.From.String()), q) ||
			strings.Contains(strings.ToLower(m.Subject), q) ||
			strings.Contains(strings.ToLower(m.Body), q) {
			out = append(out, m)
		}
	}
	return out
}
