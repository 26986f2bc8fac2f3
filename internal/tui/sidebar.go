package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/mailroom/internal/domain"
)

// folderSelectedMsg is sent when the user picks a folder via Enter.
type folderSelectedMsg struct {
	folder domain.Folder
}

// labelFilterMsg is sent when the user picks a label filter via Enter.
type labelFilterMsg struct {
	filter string
}

type deleteLabelMsg struct {
	name string
}

type sidebarItem struct {
	folder domain.Folder
	filter string
	title  string
	color  string
}

func (it sidebarItem) isFolder() bool { return it.folder != "" }

// sidebarModel shows the account, the folders with their badges and the
// label filters.
type sidebarModel struct {
	account   domain.Account
	counts    map[domain.Folder]int
	labels    []domain.Label
	cursor    int
	folder    domain.Folder
	filter    string
	collapsed bool
	width     int
	height    int
	focused   bool
}

func newSidebar() sidebarModel {
	return sidebarModel{
		folder: domain.FolderInbox,
		filter: domain.LabelFilterAll,
	}
}

// SetState copies what the sidebar displays from the controller.
func (s *sidebarModel) SetState(acc domain.Account, counts map[domain.Folder]int, labels []domain.Label, folder domain.Folder, filter string) {
	s.account = acc
	s.counts = counts
	s.labels = labels
	s.folder = folder
	s.filter = filter
	if total := len(s.items()); s.cursor >= total {
		s.cursor = total - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *sidebarModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

func (s sidebarModel) Update(msg tea.Msg) (sidebarModel, tea.Cmd) {
	if !s.focused {
		return s, nil
	}

	items := s.items()
	total := len(items)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor--
			if s.cursor < 0 {
				s.cursor = total - 1
			}
		case key.Matches(msg, keys.Down):
			s.cursor++
			if s.cursor >= total {
				s.cursor = 0
			}
		case key.Matches(msg, keys.Enter):
			if s.cursor < 0 || s.cursor >= total {
				return s, nil
			}
			it := items[s.cursor]
			if it.isFolder() {
				return s, func() tea.Msg { return folderSelectedMsg{folder: it.folder} }
			}
			return s, func() tea.Msg { return labelFilterMsg{filter: it.filter} }
		case key.Matches(msg, keys.DeleteLabel):
			if s.cursor < 0 || s.cursor >= total {
				return s, nil
			}
			it := items[s.cursor]
			if it.color == "" {
				return s, nil
			}
			return s, func() tea.Msg { return deleteLabelMsg{name: it.filter} }
		}
	}

	return s, nil
}

func (s sidebarModel) View() string {
	if s.collapsed {
		return s.collapsedView()
	}

	var b strings.Builder
	width := max(s.width, 10)

	b.WriteString(titleStyle.Render("mailroom"))
	b.WriteString("\n")
	if s.account.ID != "" {
		b.WriteString(truncate(s.account.Label, width))
		b.WriteString("\n")
		b.WriteString(mutedTextStyle.Render(truncateEmail(s.account.Email, width)))
	}
	b.WriteString("\n\n")

	items := s.items()
	for i, it := range items {
		if !it.isFolder() && (i == 0 || items[i-1].isFolder()) {
			b.WriteString("\n")
			b.WriteString(mutedTextStyle.Render(strings.Repeat("─", width)))
			b.WriteString("\n")
			b.WriteString(mutedTextStyle.Render("Labels:"))
			b.WriteString("\n")
		}
		b.WriteString(s.renderLine(it, i))
		b.WriteString("\n")
	}

	return b.String()
}

// collapsedView shows initials, badges and colour swatches only.
func (s sidebarModel) collapsedView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.account.Initials()))
	b.WriteString("\n\n")
	for i, it := range s.items() {
		var line string
		if it.isFolder() {
			line = it.title[:2]
			if n := s.counts[it.folder]; n > 0 {
				line += fmt.Sprintf(" %d", n)
			}
		} else if it.color != "" {
			line = swatch(it.color)
		} else {
			line = it.title[:1]
		}
		if s.isActive(it) {
			line = unreadStyle.Render(line)
		}
		if s.focused && i == s.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// renderLine renders one entry with cursor highlighting and active marker.
func (s sidebarModel) renderLine(it sidebarItem, idx int) string {
	prefix := "  "
	if s.isActive(it) {
		prefix = "▶ "
	}

	name := it.title
	if it.color != "" {
		name = swatch(it.color) + " " + name
	}
	line := prefix + name
	if it.isFolder() {
		if n := s.counts[it.folder]; n > 0 {
			badge := fmt.Sprintf("%d", n)
			gap := max(s.width, 10) - lipgloss.Width(line) - len(badge)
			if gap < 1 {
				gap = 1
			}
			line += strings.Repeat(" ", gap) + mutedTextStyle.Render(badge)
		}
	}

	padded := lipgloss.NewStyle().Width(max(s.width, 10)).Render(line)

	if s.focused && idx == s.cursor {
		return selectedStyle.Render(padded)
	}

	return padded
}

func (s sidebarModel) isActive(it sidebarItem) bool {
	if it.isFolder() {
		return it.folder == s.folder
	}
	return it.filter == s.filter
}

// items lists folders in navigation order, then the "All" and "Unread"
// filters, then one filter per registered label.
func (s sidebarModel) items() []sidebarItem {
	folders := domain.Folders()
	items := make([]sidebarItem, 0, len(folders)+2+len(s.labels))
	for _, f := range folders {
		items = append(items, sidebarItem{folder: f, title: f.Title()})
	}
	items = append(items,
		sidebarItem{filter: domain.LabelFilterAll, title: "All"},
		sidebarItem{filter: domain.LabelFilterUnread, title: "Unread"},
	)
	for _, l := range s.labels {
		items = append(items, sidebarItem{filter: l.Name, title: l.Name, color: l.Color})
	}
	return items
}

// truncateEmail shortens an email address to fit within maxLen.
func truncateEmail(email string, maxLen int) string {
	if len(email) <= maxLen {
		return email
	}
	if maxLen <= 3 {
		return email[:maxLen]
	}
	return email[:maxLen-1] + "…"
}
