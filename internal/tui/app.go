package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/mailbox"
	"github.com/lu-zhengda/mailroom/internal/provider"
)

type pane int

const (
	paneSidebar pane = iota
	paneList
	paneReader
)

// Below narrowWidth columns only one pane is shown at a time.
const narrowWidth = 80

const (
	collapsedSidebarWidth = 10
	minSidebarWidth       = 20
	sidebarStep           = 40
	minSidebarSize        = 120
	maxSidebarSize        = 600
)

// --- async result messages ---

type mailSentMsg struct {
	to string
}

type errMsg struct {
	err error
}

// Sender delivers mail composed from scratch.
type Sender interface {
	Send(ctx context.Context, m provider.OutboundMail) error
}

// Options connects the TUI to delivery and layout persistence.
type Options struct {
	Sender     Sender
	Layout     app.Layout
	SaveLayout func(app.Layout) error
}

// --- root model ---

type model struct {
	ctrl       *mailbox.Controller
	sender     Sender
	layout     app.Layout
	saveLayout func(app.Layout) error

	sidebar  sidebarModel
	inbox    inboxModel
	reader   readerModel
	composer composerModel
	search   searchModel
	prompt   labelPromptModel

	activePane pane
	statusBar  statusBar

	width  int
	height int
}

// NewModel creates the root TUI model over ctrl.
func NewModel(ctrl *mailbox.Controller, opts Options) model {
	layout := opts.Layout
	if len(layout.Sizes) != 3 {
		layout = app.DefaultLayout()
	}
	layout.Sizes = append([]int(nil), layout.Sizes...)

	inbox := newInbox()
	inbox.focused = true

	sidebar := newSidebar()
	sidebar.collapsed = layout.Collapsed

	m := model{
		ctrl:       ctrl,
		sender:     opts.Sender,
		layout:     layout,
		saveLayout: opts.SaveLayout,
		activePane: paneList,
		sidebar:    sidebar,
		inbox:      inbox,
		reader:     newReader(),
		composer:   newComposer(),
		search:     newSearch(),
		prompt:     newLabelPrompt(),
		statusBar:  newStatusBar(),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// --- window resize ---
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.width = msg.Width
		m.resizeSubModels()
		return m, nil

	// --- async result messages ---
	case mailSentMsg:
		m.composer.Close()
		m.statusBar.setMessage(fmt.Sprintf("Mail sent to %s!", msg.to))
		m.focusAfterOverlay()
		return m, nil

	case errMsg:
		m.statusBar.setError(fmt.Sprintf("Error: %v", msg.err))
		return m, nil

	// --- sub-model emitted messages ---
	case folderSelectedMsg:
		m.ctrl.SelectFolder(msg.folder)
		m.ctrl.ClearSelection()
		m.inbox.Reset()
		m.refresh()
		m.setFocus(paneList)
		m.statusBar.setMessage(msg.folder.Title())
		return m, nil

	case labelFilterMsg:
		m.ctrl.SetLabelFilter(msg.filter)
		m.ctrl.ClearSelection()
		m.inbox.Reset()
		m.refresh()
		m.setFocus(paneList)
		return m, nil

	case deleteLabelMsg:
		if m.ctrl.DeleteLabel(msg.name) {
			m.refresh()
			m.statusBar.setMessage(fmt.Sprintf("Label '%s' deleted", msg.name))
		}
		return m, nil

	case messageSelectedMsg:
		m.open(msg.id)
		return m, nil

	case searchResultSelectedMsg:
		m.search.Close()
		m.open(msg.id)
		return m, nil

	case messageActionMsg:
		m.apply(msg.id, msg.action)
		return m, nil

	case labelPromptMsg:
		m.prompt.Open(msg.id)
		return m, nil

	case labelSubmitMsg:
		m.prompt.Close()
		m.editLabel(msg.id, msg.input)
		return m, nil

	case closePromptMsg:
		m.prompt.Close()
		return m, nil

	case replyMsg:
		m.composer.Reply(msg.message)
		m.resizeSubModels()
		return m, nil

	case forwardMsg:
		m.composer.Forward(msg.message)
		m.resizeSubModels()
		return m, nil

	case closeReaderMsg:
		m.ctrl.ClearSelection()
		m.refresh()
		m.setFocus(paneList)
		return m, nil

	case sendMsg:
		cmd := m.send(msg.draft)
		return m, cmd

	case saveDraftMsg:
		m.saveDraft(msg.draft)
		return m, nil

	case cancelComposeMsg:
		m.composer.Close()
		m.focusAfterOverlay()
		return m, nil

	case searchQueryMsg:
		results := findMessages(m.ctrl.Visible(), msg.query)
		m.search.SetResults(results)
		m.statusBar.setMessage(fmt.Sprintf("Found %d results", len(results)))
		return m, nil

	case closeSearchMsg:
		m.search.Close()
		m.setFocus(paneList)
		return m, nil

	// --- key events ---
	case tea.KeyMsg:
		// Overlays get all key events while open.
		if m.composer.IsVisible() {
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Update(msg)
			return m, cmd
		}
		if m.prompt.IsActive() {
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(msg)
			return m, cmd
		}
		if m.search.IsActive() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Compose):
			m.composer.Compose()
			m.resizeSubModels()
			return m, nil

		case key.Matches(msg, keys.Search):
			m.search.Open()
			m.resizeSubModels()
			return m, nil

		case key.Matches(msg, keys.Tab):
			m.cyclePane()
			return m, nil

		case key.Matches(msg, keys.Toggle):
			m.layout.Collapsed = !m.layout.Collapsed
			m.sidebar.collapsed = m.layout.Collapsed
			m.resizeSubModels()
			return m, m.saveLayoutCmd()

		case key.Matches(msg, keys.Grow):
			cmd := m.resizeSidebar(sidebarStep)
			return m, cmd

		case key.Matches(msg, keys.Shrink):
			cmd := m.resizeSidebar(-sidebarStep)
			return m, cmd

		case key.Matches(msg, keys.SwitchAccount):
			m.cycleAccount()
			return m, nil
		}

		var cmd tea.Cmd
		switch m.activePane {
		case paneSidebar:
			m.sidebar, cmd = m.sidebar.Update(msg)
		case paneList:
			m.inbox, cmd = m.inbox.Update(msg)
		case paneReader:
			m.reader, cmd = m.reader.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3 // reserve space for status bar

	bottom := m.statusBar.View()
	if m.prompt.IsActive() {
		bottom = statusBarStyle.Width(m.width).Render(m.prompt.View())
	}

	if m.narrow() {
		return lipgloss.JoinVertical(lipgloss.Left, m.narrowView(contentWidth, contentHeight), bottom)
	}

	sidebarView := sidebarStyle.
		Width(sidebarWidth).
		Height(contentHeight).
		Render(m.sidebar.View())

	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, m.contentView(contentWidth, contentHeight))
	return lipgloss.JoinVertical(lipgloss.Left, main, bottom)
}

func (m model) contentView(width, height int) string {
	switch {
	case m.composer.IsVisible():
		return lipgloss.NewStyle().Width(width).Height(height).Render(m.composer.View())

	case m.search.IsActive():
		return lipgloss.NewStyle().Width(width).Height(height).Render(m.search.View())

	case m.reader.IsVisible():
		listHeight, readerHeight := m.splitHeights(height)
		listView := listStyle.Width(width).Height(listHeight).Render(m.inbox.View())
		readerView := readerStyle.Width(width).Height(readerHeight).Render(m.reader.View())
		return lipgloss.JoinVertical(lipgloss.Left, listView, readerView)

	default:
		return listStyle.Width(width).Height(height).Render(m.inbox.View())
	}
}

// narrowView shows the focused pane alone.
func (m model) narrowView(width, height int) string {
	switch {
	case m.composer.IsVisible():
		return lipgloss.NewStyle().Width(width).Height(height).Render(m.composer.View())
	case m.search.IsActive():
		return lipgloss.NewStyle().Width(width).Height(height).Render(m.search.View())
	case m.activePane == paneSidebar:
		sidebar := m.sidebar
		sidebar.collapsed = false
		return sidebarStyle.Width(width).Height(height).Render(sidebar.View())
	case m.activePane == paneReader && m.reader.IsVisible():
		return readerStyle.Width(width).Height(height).Render(m.reader.View())
	default:
		return listStyle.Width(width).Height(height).Render(m.inbox.View())
	}
}

// --- controller actions ---

// refresh copies controller state into the sub-models.
func (m *model) refresh() {
	c := m.ctrl
	labels := c.Labels().List()
	colors := make(map[string]string, len(labels))
	for _, l := range labels {
		colors[l.Name] = l.Color
	}
	acc, _ := c.CurrentAccount()

	m.sidebar.SetState(acc, c.Counts(), labels, c.Folder(), c.LabelFilter())
	m.inbox.SetMessages(c.Visible(), colors)
	m.statusBar.folder = c.Folder()
	m.statusBar.multiAccount = c.Accounts().Len() > 1

	wasVisible := m.reader.IsVisible()
	if sel, ok := c.Selected(); ok {
		var orig *domain.Message
		if o, ok := c.Original(sel); ok {
			orig = &o
		}
		m.reader.Show(sel, orig, colors)
	} else if wasVisible {
		m.reader.Close()
		if m.activePane == paneReader {
			m.setFocus(paneList)
		}
	}
	m.statusBar.readerVisible = m.reader.IsVisible()
	if wasVisible != m.reader.IsVisible() {
		m.resizeSubModels()
	}
}

// open shows a message in the reader, or the draft editor for drafts.
func (m *model) open(id string) {
	msg, ok := m.ctrl.Store().Get(id)
	if !ok {
		return
	}
	if msg.Folder == domain.FolderDrafts {
		m.composer.EditDraft(msg)
		m.resizeSubModels()
		return
	}
	if !m.ctrl.Select(id) {
		return
	}
	m.refresh()
	m.setFocus(paneReader)
}

func (m *model) apply(id, action string) {
	c := m.ctrl
	var ok bool
	var toast string

	switch action {
	case "archive":
		ok, toast = c.Archive(id), "Mail archived"
	case "delete":
		toast = "Mail moved to trash"
		if c.Folder() == domain.FolderTrash {
			toast = "Mail permanently deleted"
		}
		ok = c.Delete(id)
	case "restore":
		ok, toast = c.Restore(id), "Mail restored to inbox"
	case "junk":
		ok, toast = c.MoveToJunk(id), "Mail moved to junk"
	case "star":
		ok, toast = c.ToggleStar(id), "Star toggled"
	case "unread":
		ok, toast = c.MarkUnread(id), "Marked as unread"
		c.ClearSelection()
	}
	if !ok {
		if msg, found := c.Store().Get(id); found {
			m.statusBar.setError(fmt.Sprintf("Cannot %s mail in %s", action, msg.Folder.Title()))
		}
		return
	}
	m.refresh()
	m.statusBar.setMessage(toast)
}

func (m *model) editLabel(id, input string) {
	e, err := parseLabelInput(input)
	if err != nil {
		m.statusBar.setError(err.Error())
		return
	}
	if e.remove {
		if m.ctrl.RemoveLabel(e.name, id) {
			m.statusBar.setMessage(fmt.Sprintf("Label '%s' removed", e.name))
		}
		m.refresh()
		return
	}
	if !m.ctrl.AddLabel(e.name, e.color, id) {
		m.statusBar.setError(fmt.Sprintf("Could not add label '%s'", e.name))
		return
	}
	if e.color != "" {
		m.ctrl.SetLabelColor(e.name, e.color)
	}
	m.refresh()
	m.statusBar.setMessage(fmt.Sprintf("Label '%s' added!", e.name))
}

// send submits the composer. New mail goes to the transport; replies,
// forwards and drafts are recorded in the mailbox.
func (m *model) send(d draft) tea.Cmd {
	c := m.ctrl
	switch d.mode {
	case modeCompose:
		if m.sender == nil {
			m.statusBar.setError("No mail transport configured")
			return nil
		}
		out := provider.OutboundMail{To: d.to, Subject: d.subject, Body: d.body}
		if err := provider.Validate(out); err != nil {
			m.statusBar.setError(err.Error())
			return nil
		}
		m.statusBar.setMessage("Sending email...")
		return m.sendMailCmd(out)

	case modeReply:
		if _, ok := c.SendReply(d.targetID, d.body); !ok {
			m.statusBar.setError("Reply text is required")
			return nil
		}
		m.finishCompose("Reply sent!")

	case modeForward:
		if _, ok := c.Forward(d.to, d.subject, d.body, d.targetID); !ok {
			m.statusBar.setError("Recipient, subject and body are required")
			return nil
		}
		m.finishCompose("Mail forwarded and sent!")

	case modeDraft:
		if _, ok := c.SendDraft(d.targetID, d.subject, d.body); !ok {
			m.statusBar.setError("Draft could not be sent")
			return nil
		}
		m.finishCompose("Mail sent!")
	}
	return nil
}

func (m *model) saveDraft(d draft) {
	if d.mode == modeDraft {
		if m.ctrl.SaveDraft(d.targetID, d.subject, d.body) {
			m.finishCompose("Draft saved")
		}
		return
	}
	if _, ok := m.ctrl.SaveNewDraft(d.to, d.subject, d.body); !ok {
		m.statusBar.setError("Nothing to save")
		return
	}
	m.finishCompose("Draft saved!")
}

func (m *model) finishCompose(toast string) {
	m.composer.Close()
	m.refresh()
	m.focusAfterOverlay()
	m.statusBar.setMessage(toast)
}

func (m *model) cycleAccount() {
	accs := m.ctrl.Accounts().List()
	if len(accs) < 2 {
		m.statusBar.setMessage("Only one account configured")
		return
	}
	next := accs[0].ID
	for i, acc := range accs {
		if acc.ID == m.ctrl.CurrentAccountID() {
			next = accs[(i+1)%len(accs)].ID
			break
		}
	}
	m.ctrl.SwitchAccount(next)
	m.inbox.Reset()
	m.refresh()
	m.setFocus(paneList)
	acc, _ := m.ctrl.CurrentAccount()
	m.statusBar.setMessage(fmt.Sprintf("Switched to %s", acc.Label))
}

// --- focus management ---

func (m *model) setFocus(p pane) {
	m.activePane = p
	m.sidebar.focused = (p == paneSidebar)
	m.inbox.focused = (p == paneList)
	m.reader.focused = (p == paneReader)
}

func (m *model) focusAfterOverlay() {
	if m.reader.IsVisible() {
		m.setFocus(paneReader)
		return
	}
	m.setFocus(paneList)
}

func (m *model) cyclePane() {
	switch m.activePane {
	case paneSidebar:
		m.setFocus(paneList)
	case paneList:
		if m.reader.IsVisible() {
			m.setFocus(paneReader)
		} else {
			m.setFocus(paneSidebar)
		}
	case paneReader:
		m.setFocus(paneSidebar)
	}
}

// --- layout helpers ---

func (m model) narrow() bool {
	return m.width < narrowWidth
}

func (m model) layoutWidths() (sidebarWidth, contentWidth int) {
	if m.narrow() {
		return m.width - 2, m.width - 2
	}
	if m.layout.Collapsed {
		sidebarWidth = collapsedSidebarWidth
	} else {
		total := 0
		for _, s := range m.layout.Sizes {
			total += s
		}
		sidebarWidth = max(m.width*m.layout.Sizes[0]/max(total, 1), minSidebarWidth)
	}
	contentWidth = m.width - sidebarWidth - 4
	return sidebarWidth, contentWidth
}

// splitHeights divides the content column between list and reader in the
// ratio of the saved list and reader sizes.
func (m model) splitHeights(height int) (listHeight, readerHeight int) {
	if height < 10 {
		return height / 2, height - height/2
	}
	list, reader := m.layout.Sizes[1], m.layout.Sizes[2]
	listHeight = height * list / max(list+reader, 1)
	listHeight = min(max(listHeight, 5), height-5)
	return listHeight, height - listHeight
}

func (m *model) resizeSubModels() {
	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3

	// sidebarStyle: Border(2h + 2v) + Padding(2h + 2v)
	m.sidebar.SetSize(sidebarWidth-4, contentHeight-4)

	// listStyle: Border(2h + 2v) + Padding(2h); readerStyle: Border(2h + 2v) + Padding(4h + 2v)
	if m.reader.IsVisible() && !m.narrow() {
		listHeight, readerHeight := m.splitHeights(contentHeight)
		m.inbox.SetSize(contentWidth-4, listHeight-2)
		m.reader.SetSize(contentWidth-6, readerHeight-4)
	} else {
		m.inbox.SetSize(contentWidth-4, contentHeight-2)
		m.reader.SetSize(contentWidth-6, contentHeight-4)
	}

	m.composer.SetSize(contentWidth, contentHeight)
	m.search.SetSize(contentWidth, contentHeight)
	m.prompt.width = m.width
}

func (m *model) resizeSidebar(delta int) tea.Cmd {
	if m.layout.Collapsed {
		return nil
	}
	size := min(max(m.layout.Sizes[0]+delta, minSidebarSize), maxSidebarSize)
	if size == m.layout.Sizes[0] {
		return nil
	}
	m.layout.Sizes[0] = size
	m.resizeSubModels()
	return m.saveLayoutCmd()
}

// --- async commands ---

func (m model) saveLayoutCmd() tea.Cmd {
	if m.saveLayout == nil {
		return nil
	}
	save := m.saveLayout
	l := app.Layout{Sizes: append([]int(nil), m.layout.Sizes...), Collapsed: m.layout.Collapsed}
	return func() tea.Msg {
		if err := save(l); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m model) sendMailCmd(out provider.OutboundMail) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		if err := sender.Send(context.Background(), out); err != nil {
			return errMsg{err: err}
		}
		return mailSentMsg{to: out.To}
	}
}

// Run starts the Bubble Tea TUI application.
func Run(ctrl *mailbox.Controller, opts Options) error {
	prog := tea.NewProgram(NewModel(ctrl, opts), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
