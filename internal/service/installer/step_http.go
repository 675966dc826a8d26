package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// HTTPAddrStep collects the JSON API listen address.
type HTTPAddrStep struct {
	input textinput.Model
}

func NewHTTPAddrStep() Step {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30
	ti.Placeholder = ":8043"
	return &HTTPAddrStep{input: ti}
}

func (s *HTTPAddrStep) Applies(*InstallState) bool { return true }

func (s *HTTPAddrStep) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *HTTPAddrStep) Update(msg tea.Msg, state *InstallState) (bool, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if addr := strings.TrimSpace(s.input.Value()); addr != "" {
			state.Config.HTTPAddr = addr
		}
		return true, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return false, cmd
}

func (s *HTTPAddrStep) View(state *InstallState) string {
	return "HTTP API listen address:\n\n" +
		s.input.View() + "\n\n" +
		hintStyle.Render("leave empty for "+state.Config.HTTPAddr) + "\n"
}
