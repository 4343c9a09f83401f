package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/intelliking/skillhub/internal/client"
	"github.com/intelliking/skillhub/internal/settings"
	"github.com/intelliking/skillhub/internal/skill"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	onStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	triggerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))
)

// Messages for Bubble Tea
type (
	skillsLoadedMsg struct {
		skills []*skill.Skill
		err    error
	}
	settingsLoadedMsg struct {
		disabled []string
		err      error
	}
	saveDoneMsg struct {
		disabled []string
		err      error
	}
	clearStatusMsg struct{}
)

// model is the settings screen: a toggle row per skill, dirty tracking, and
// an explicit save.
type model struct {
	api   *client.Client
	query *client.SkillsQuery
	rec   *settings.Reconciler

	skills          []*skill.Skill
	skillsLoading   bool
	settingsLoading bool
	loadErr         error

	cursor      int
	status      string
	statusIsErr bool
	spin        spinner.Model
	width       int
}

func newModel(api *client.Client, query *client.SkillsQuery) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		api:             api,
		query:           query,
		rec:             settings.New(),
		skillsLoading:   true,
		settingsLoading: true,
		spin:            sp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchSkills(), m.fetchSettings(), m.spin.Tick)
}

func (m model) fetchSkills() tea.Cmd {
	query := m.query
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		skills, err := query.Get(ctx)
		return skillsLoadedMsg{skills: skills, err: err}
	}
}

func (m model) fetchSettings() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s, err := api.GetSettings(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		return settingsLoadedMsg{disabled: s.DisabledMicroagents}
	}
}

func (m model) save(disabled []string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s, err := api.UpdateSettings(ctx, &client.SettingsPatch{DisabledMicroagents: &disabled})
		if err != nil {
			return saveDoneMsg{err: err}
		}
		return saveDoneMsg{disabled: s.DisabledMicroagents}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m model) loading() bool {
	return m.skillsLoading || m.settingsLoading
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading() && m.rec.Phase() != settings.PhaseSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case skillsLoadedMsg:
		m.skillsLoading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.skills = msg.skills
		return m, nil

	case settingsLoadedMsg:
		m.settingsLoading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.rec.Seed(msg.disabled)
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			m.rec.SaveFailed()
			m.status = client.ErrorMessage(msg.err)
			m.statusIsErr = true
		} else {
			m.rec.SaveSucceeded(msg.disabled)
			m.status = "Settings saved"
			m.statusIsErr = false
		}
		return m, clearStatusAfter(4 * time.Second)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.skills)-1 {
			m.cursor++
		}

	case " ", "enter":
		if m.loading() || m.cursor >= len(m.skills) {
			return m, nil
		}
		s := m.skills[m.cursor]
		// Flipping: currently disabled means toggle to enabled.
		m.rec.Toggle(s.Name, m.rec.IsDisabled(s.Name))

	case "s":
		disabled, err := m.rec.BeginSave()
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(m.save(disabled), m.spin.Tick)
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Skills"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Enable or disable the skills available to your agent."))
	b.WriteString("\n\n")

	switch {
	case m.loading():
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" loading skills..."))
		b.WriteString("\n\n")
		for i := 0; i < 3; i++ {
			b.WriteString(dimStyle.Render("  ░░░░░░░░░░░░░░░░░░░░░░░░"))
			b.WriteString("\n")
		}

	case m.loadErr != nil:
		b.WriteString(errStyle.Render("Failed to load: " + client.ErrorMessage(m.loadErr)))
		b.WriteString("\n")

	case len(m.skills) == 0:
		b.WriteString(dimStyle.Render("No skills found."))
		b.WriteString("\n")

	default:
		for i, s := range m.skills {
			b.WriteString(m.renderRow(i, s))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m model) renderRow(i int, s *skill.Skill) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	mark := onStyle.Render("[on] ")
	if m.rec.IsDisabled(s.Name) {
		mark = offStyle.Render("[off]")
	}

	line := fmt.Sprintf("%s%s %s %s", cursor, mark, s.Name,
		dimStyle.Render(fmt.Sprintf("(%s/%s)", s.Source, s.Type)))
	if len(s.Triggers) > 0 {
		line += triggerStyle.Render("  triggers: " + strings.Join(s.Triggers, ", "))
	}
	return line
}

func (m model) renderStatus() string {
	if m.rec.Phase() == settings.PhaseSaving {
		return m.spin.View() + dimStyle.Render(" saving...")
	}
	if m.status != "" {
		if m.statusIsErr {
			return errStyle.Render(m.status)
		}
		return okStyle.Render(m.status)
	}
	if m.rec.Dirty() {
		return dimStyle.Render("unsaved changes")
	}
	return ""
}

func (m model) renderHelp() string {
	save := "s save"
	if !m.rec.CanSave() {
		save = dimStyle.Render(save)
	}
	return dimStyle.Render("↑/↓ move · space toggle · ") + save + dimStyle.Render(" · q quit")
}
