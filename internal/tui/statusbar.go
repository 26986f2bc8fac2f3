package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/mailroom/internal/domain"
)

type statusBar struct {
	message       string
	width         int
	isError       bool
	multiAccount  bool
	readerVisible bool
	folder        domain.Folder
}

func newStatusBar() statusBar {
	return statusBar{message: "Ready"}
}

func (s *statusBar) setMessage(msg string) {
	s.message = msg
	s.isError = false
}

func (s *statusBar) setError(msg string) {
	s.message = msg
	s.isError = true
}

func (s statusBar) View() string {
	msgStyle := statusBarStyle
	if s.isError {
		msgStyle = msgStyle.Foreground(errorColor)
	}

	left := s.message
	shortcuts := s.shortcuts()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 0 {
		gap = 0
	}

	content := left + lipgloss.NewStyle().Width(gap).Render("") + mutedTextStyle.Render(shortcuts)
	return msgStyle.Width(s.width).Render(content)
}

func (s statusBar) shortcuts() string {
	var base string
	switch {
	case s.readerVisible:
		base = "r:reply  f:fwd  a:archive  d:trash  l:label  esc:back"
	case s.folder == domain.FolderTrash || s.folder == domain.FolderJunk || s.folder == domain.FolderArchive:
		base = "j/k:nav  enter:open  i:restore  d:delete  c:compose"
	default:
		base = "j/k:nav  enter:open  c:compose  /:find"
	}
	if s.multiAccount {
		return base + "  @:account"
	}
	return base
}
