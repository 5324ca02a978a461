package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/flowview/internal/config"
	"github.com/simonbystrom/flowview/internal/session"
	"github.com/simonbystrom/flowview/internal/workspace"
)

var tabTitles = map[workspace.Tab]string{
	workspace.TabDashboard: "Dashboard",
	workspace.TabWorkflows: "Workflows",
	workspace.TabAI:        "AI Architect",
	workspace.TabTemplates: "Templates",
	workspace.TabTeam:      "Team",
	workspace.TabSettings:  "Settings",
}

// AppModel is the root bubbletea model. The active tab lives on the
// workspace so that applying a template or suggestion can move the user.
type AppModel struct {
	ws     *workspace.Workspace
	styles Styles

	login     loginModel
	dashboard dashboardModel
	workflows workflowsModel
	ai        aiModel
	templates templatesModel
	team      teamModel
	settings  settingsModel
	confirm   confirmResetModel

	notice string
	width  int
	height int
}

func NewApp(cfg config.Config, ws *workspace.Workspace, adv Advisor) AppModel {
	s := NewStyles(cfg.Colors)
	return AppModel{
		ws:        ws,
		styles:    s,
		login:     newLogin(s, ws),
		dashboard: newDashboard(s, ws),
		workflows: newWorkflows(s, ws),
		ai:        newAI(s, ws, adv),
		templates: newTemplates(s, ws),
		team:      newTeam(s, ws),
		settings:  newSettings(s, ws),
		confirm:   newConfirmReset(s, ws),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

// capturing reports whether the focused view is taking raw text input, in
// which case global shortcuts are suspended.
func (m AppModel) capturing() bool {
	if m.ws.State() == session.LoggedOut {
		return m.login.capturing()
	}
	switch m.ws.Tab() {
	case workspace.TabAI:
		return m.ai.capturing()
	case workspace.TabTeam:
		return m.team.capturing()
	case workspace.TabSettings:
		return m.settings.capturing()
	}
	return false
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.login.width = msg.Width
		m.dashboard.resize(msg.Width)
		return m, nil

	case suggestionMsg, analysisMsg, spinner.TickMsg:
		// Replies arrive regardless of the visible tab.
		var cmd tea.Cmd
		m.ai, cmd = m.ai.Update(msg)
		return m, cmd

	case resetConfirmedMsg:
		m.notice = "Workflow reset to its initial state."
		return m, nil

	case resetCancelledMsg:
		return m, nil

	case loginDoneMsg:
		m.notice = fmt.Sprintf("Welcome, %s.", msg.name)
		return m, nil
	}

	if m.ws.ResetPending() {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}

	if m.ws.State() == session.LoggedOut {
		return m.updateLogin(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.capturing() {
		if next, cmd, handled := m.handleGlobalKey(keyMsg); handled {
			return next, cmd
		}
	}

	before := m.ws.Tab()
	m, cmd := m.updateTab(msg)
	if before == workspace.TabAI && m.ws.Tab() != workspace.TabAI {
		m.ai = m.ai.abandon()
	}
	return m, cmd
}

func (m AppModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.login.capturing() {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m AppModel) handleGlobalKey(msg tea.KeyMsg) (AppModel, tea.Cmd, bool) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit, true
	case "1", "2", "3", "4", "5", "6":
		return m.switchTab(workspace.Tabs[int(key[0]-'1')]), nil, true
	case "tab":
		return m.switchTab(m.neighbourTab(1)), nil, true
	case "shift+tab":
		return m.switchTab(m.neighbourTab(-1)), nil, true
	case "ctrl+s":
		m.notice = m.ws.Save()
		return m, nil, true
	case "R":
		m.notice = ""
		m.ws.RequestReset()
		return m, nil, true
	case "L":
		m.ai = m.ai.abandon()
		m.ws.Logout()
		m.notice = ""
		return m, nil, true
	}
	return m, nil, false
}

func (m AppModel) neighbourTab(step int) workspace.Tab {
	cur := 0
	for i, t := range workspace.Tabs {
		if t == m.ws.Tab() {
			cur = i
			break
		}
	}
	n := len(workspace.Tabs)
	return workspace.Tabs[((cur+step)%n+n)%n]
}

func (m AppModel) switchTab(t workspace.Tab) AppModel {
	if m.ws.Tab() == workspace.TabAI && t != workspace.TabAI {
		m.ai = m.ai.abandon()
	}
	m.ws.SetTab(t)
	m.notice = ""
	return m
}

func (m AppModel) updateTab(msg tea.Msg) (AppModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.ws.Tab() {
	case workspace.TabWorkflows:
		m.workflows, cmd = m.workflows.Update(msg)
	case workspace.TabAI:
		m.ai, cmd = m.ai.Update(msg)
	case workspace.TabTemplates:
		m.templates, cmd = m.templates.Update(msg)
	case workspace.TabTeam:
		m.team, cmd = m.team.Update(msg)
	case workspace.TabSettings:
		m.settings, cmd = m.settings.Update(msg)
	}
	return m, cmd
}

func (m AppModel) View() string {
	maxWidth := m.width - 4
	if maxWidth < 40 {
		maxWidth = 80
	}

	if m.ws.State() == session.LoggedOut {
		return m.styles.Border.Width(maxWidth).Render(m.login.ViewContent())
	}

	var content string
	if m.ws.ResetPending() {
		content = lipgloss.Place(maxWidth-6, 12, lipgloss.Center, lipgloss.Center, m.confirm.View())
	} else {
		content = m.tabContent()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader(maxWidth - 6))
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n")
	b.WriteString(m.styles.Separator.Render(strings.Repeat("─", maxWidth-6)))
	b.WriteString("\n\n")
	b.WriteString(content)
	b.WriteString("\n")

	if m.notice != "" {
		style := m.styles.Success
		if strings.HasPrefix(m.notice, "Error") {
			style = m.styles.Error
		}
		b.WriteString("\n")
		b.WriteString(style.Render("  " + m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  1-6/tab: switch │ ctrl+s: save │ R: reset │ L: logout │ q: quit"))

	return m.styles.Border.Width(maxWidth).Render(b.String())
}

func (m AppModel) viewHeader(width int) string {
	left := m.styles.Logo.Render(brand) + "  " + m.styles.Title.Render(m.ws.Name())

	right := ""
	if id, ok := m.ws.Identity(); ok {
		right = m.styles.Dim.Render(fmt.Sprintf("%s  %s", id.Name, id.Email))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m AppModel) viewTabs() string {
	parts := make([]string, len(workspace.Tabs))
	for i, t := range workspace.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tabTitles[t])
		if t == m.ws.Tab() {
			parts[i] = m.styles.TabActive.Render(label)
		} else {
			parts[i] = m.styles.TabInactive.Render(label)
		}
	}
	return "  " + strings.Join(parts, m.styles.Separator.Render("  │  "))
}

func (m AppModel) tabContent() string {
	switch m.ws.Tab() {
	case workspace.TabWorkflows:
		return m.workflows.ViewContent()
	case workspace.TabAI:
		return m.ai.ViewContent()
	case workspace.TabTemplates:
		return m.templates.ViewContent()
	case workspace.TabTeam:
		return m.team.ViewContent()
	case workspace.TabSettings:
		return m.settings.ViewContent()
	default:
		return m.dashboard.ViewContent()
	}
}
