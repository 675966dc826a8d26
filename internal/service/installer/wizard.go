package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/recall/internal/core"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one question of the wizard. Steps keep their input between visits,
// so going back shows what was typed before.
type Step interface {
	// Applies reports whether the step is relevant given earlier answers.
	Applies(state *InstallState) bool
	Init() tea.Cmd
	// Update reports done once the answer is stored in state.
	Update(msg tea.Msg, state *InstallState) (done bool, cmd tea.Cmd)
	View(state *InstallState) string
}

func defaultSteps() []Step {
	return []Step{
		NewDatabaseStep(),
		NewPostgresDSNStep(),
		NewHTTPAddrStep(),
		NewTelegramTokenStep(),
		NewDigestStep(),
	}
}

type model struct {
	steps       []Step
	current     int
	history     []int
	state       *InstallState
	runtimePath string
	savedTo     string
	err         error
	quitting    bool
}

func newModel(runtimePath string, steps []Step) model {
	m := model{
		steps:       steps,
		current:     -1,
		state:       NewInstallState(),
		runtimePath: runtimePath,
	}
	m.current = m.nextApplicable(-1)
	return m
}

func (m model) Init() tea.Cmd {
	if m.current < 0 {
		return nil
	}
	return m.steps[m.current].Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			return m.back()
		}
	}

	if m.current < 0 {
		return m, nil
	}

	done, cmd := m.steps[m.current].Update(msg, m.state)
	if !done {
		return m, cmd
	}
	m.err = nil
	return m.advance()
}

// advance moves to the next applicable step, or saves the configuration when
// there is none left. A failed save keeps the wizard open so the user can go
// back and fix the answer.
func (m model) advance() (tea.Model, tea.Cmd) {
	next := m.nextApplicable(m.current)
	if next >= 0 {
		m.history = append(m.history, m.current)
		m.current = next
		return m, m.steps[next].Init()
	}

	path, err := complete(m.runtimePath, m.state)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.savedTo = path
	return m, tea.Quit
}

func (m model) back() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}
	m.err = nil
	m.current = m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m, m.steps[m.current].Init()
}

func (m model) nextApplicable(from int) int {
	for i := from + 1; i < len(m.steps); i++ {
		if m.steps[i].Applies(m.state) {
			return i
		}
	}
	return -1
}

func (m model) View() string {
	switch {
	case m.quitting:
		return "Installation cancelled.\n"
	case m.savedTo != "":
		return "Configuration saved to " + m.savedTo + "\n"
	case m.current < 0:
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Setting up %s 🧠", core.AppName)))
	b.WriteString("  " + hintStyle.Render(fmt.Sprintf("question %d", len(m.history)+1)) + "\n\n")
	b.WriteString(m.steps[m.current].View(m.state))
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("enter confirm · esc back · ctrl+c quit") + "\n")
	return b.String()
}

// RunWizard asks the setup questions and writes <runtimePath>/.env.
// It returns the path of the written file.
func RunWizard(runtimePath string) (string, error) {
	p := tea.NewProgram(newModel(runtimePath, defaultSteps()), tea.WithAltScreen())
	res, err := p.Run()
	if err != nil {
		return "", err
	}

	final := res.(model)
	if final.quitting || final.savedTo == "" {
		return "", fmt.Errorf("%s installation interrupted", core.AppName)
	}
	return final.savedTo, nil
}
