package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramTokenStep collects the bot token; leaving it empty disables the bot.
type TelegramTokenStep struct {
	input textinput.Model
}

func NewTelegramTokenStep() Step {
	ti := textinput.New()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789:ABCDEF..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return &TelegramTokenStep{input: ti}
}

func (s *TelegramTokenStep) Applies(*InstallState) bool { return true }

func (s *TelegramTokenStep) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *TelegramTokenStep) Update(msg tea.Msg, state *InstallState) (bool, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		state.Config.TelegramToken = strings.TrimSpace(s.input.Value())
		return true, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return false, cmd
}

func (s *TelegramTokenStep) View(*InstallState) string {
	return "Telegram bot token:\n\n" +
		s.input.View() + "\n\n" +
		hintStyle.Render("leave empty to practise without Telegram") + "\n"
}

// DigestStep asks whether subscribers get a daily progress summary.
type DigestStep struct {
	yes bool
}

func NewDigestStep() Step {
	return &DigestStep{yes: true}
}

func (s *DigestStep) Applies(state *InstallState) bool {
	return state.Config.TelegramToken != ""
}

func (s *DigestStep) Init() tea.Cmd { return nil }

func (s *DigestStep) Update(msg tea.Msg, state *InstallState) (bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch key.String() {
	case "left", "right", "tab", "h", "l":
		s.yes = !s.yes
	case "y":
		s.yes = true
	case "n":
		s.yes = false
	case "enter":
		state.Config.DigestEnabled = s.yes
		return true, nil
	}
	return false, nil
}

func (s *DigestStep) View(*InstallState) string {
	yes, no := itemStyle.Render("Yes"), itemStyle.Render("No")
	if s.yes {
		yes = selStyle.Render("❯ Yes")
	} else {
		no = selStyle.Render("❯ No")
	}
	return fmt.Sprintf("Send subscribers a daily progress digest?\n\n%s   %s\n", yes, no)
}
