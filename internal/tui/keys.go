package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Enter         key.Binding
	Back          key.Binding
	Compose       key.Binding
	Reply         key.Binding
	Forward       key.Binding
	Archive       key.Binding
	Delete        key.Binding
	Restore       key.Binding
	Junk          key.Binding
	Star          key.Binding
	Unread        key.Binding
	Label         key.Binding
	DeleteLabel   key.Binding
	Search        key.Binding
	Tab           key.Binding
	Toggle        key.Binding
	Grow          key.Binding
	Shrink        key.Binding
	SwitchAccount key.Binding
	Quit          key.Binding
}

var keys = keyMap{
	Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Compose:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compose")),
	Reply:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reply")),
	Forward:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forward")),
	Archive:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
	Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "trash")),
	Restore:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "restore")),
	Junk:          key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "junk")),
	Star:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
	Unread:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unread")),
	Label:         key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "label")),
	DeleteLabel:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete label")),
	Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
	Tab:           key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Toggle:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "collapse sidebar")),
	Grow:          key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "wider sidebar")),
	Shrink:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "narrower sidebar")),
	SwitchAccount: key.NewBinding(key.WithKeys("@"), key.WithHelp("@", "account")),
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
