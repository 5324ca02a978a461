package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/flowview/internal/config"
	"github.com/simonbystrom/flowview/internal/team"
	"github.com/simonbystrom/flowview/internal/workflow"
)

// Styles holds every lipgloss style the views render with.
type Styles struct {
	Title       lipgloss.Style
	Header      lipgloss.Style
	Selected    lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
	Dim         lipgloss.Style
	Border      lipgloss.Style
	Modal       lipgloss.Style
	Separator   lipgloss.Style
	Logo        lipgloss.Style

	types    map[workflow.Type]lipgloss.Style
	statuses map[workflow.Status]lipgloss.Style
	presence map[team.Presence]lipgloss.Style

	progressColor string
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// NewStyles builds the style set from configured colors.
func NewStyles(c config.Colors) Styles {
	return Styles{
		Title: fg(c.Title).Bold(true).Padding(0, 1),
		Header: fg(c.Header).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(c.SelectedBG)).
			Foreground(lipgloss.Color(c.SelectedFG)),
		TabActive: fg(c.TabActive).Bold(true).Underline(true),
		TabInactive: fg(c.TabInactive),
		Success:     fg(c.Success).Bold(true),
		Error:       fg(c.Error).Bold(true),
		Help:        fg(c.Help),
		Dim:         fg(c.Dim),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Border)).
			Padding(1, 2),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(c.Error)).
			Padding(1, 2),
		Separator: fg(c.Separator),
		Logo:      fg(c.Logo).Bold(true),

		types: map[workflow.Type]lipgloss.Style{
			workflow.TypePlanning:    fg(c.Planning),
			workflow.TypeDevelopment: fg(c.Development),
			workflow.TypeTesting:     fg(c.Testing),
			workflow.TypeReview:      fg(c.Review),
			workflow.TypeDeployment:  fg(c.Deployment),
		},
		statuses: map[workflow.Status]lipgloss.Style{
			workflow.StatusTodo:       fg(c.Todo),
			workflow.StatusInProgress: fg(c.InProgress).Bold(true),
			workflow.StatusCompleted:  fg(c.Completed),
			workflow.StatusBlocked:    fg(c.Blocked).Bold(true),
		},
		presence: map[team.Presence]lipgloss.Style{
			team.PresenceOnline:  fg(c.Online),
			team.PresenceBusy:    fg(c.Busy),
			team.PresenceOffline: fg(c.Offline),
		},
		progressColor: c.Completed,
	}
}

func (s Styles) Type(t workflow.Type) lipgloss.Style {
	if st, ok := s.types[t]; ok {
		return st
	}
	return s.Dim
}

func (s Styles) Status(st workflow.Status) lipgloss.Style {
	if style, ok := s.statuses[st]; ok {
		return style
	}
	return s.Dim
}

func (s Styles) Presence(p team.Presence) lipgloss.Style {
	if st, ok := s.presence[p]; ok {
		return st
	}
	return s.Dim
}
