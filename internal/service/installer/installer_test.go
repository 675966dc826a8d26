package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/recall/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func down() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyDown} }
func esc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func newTestModel(t *testing.T) (tea.Model, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "runtime")
	m := newModel(dir, defaultSteps())
	m.Init()
	return m, dir
}

func TestSaveEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runtime")
	cfg := config.InstallConfig{
		DBDriver:       config.DriverPostgres,
		DBDSN:          "postgres://u:p@localhost/recall",
		EnableHTTP:     true,
		HTTPAddr:       ":9000",
		EnableTelegram: true,
		TelegramToken:  "123:abc",
	}

	path, err := SaveEnv(dir, cfg)
	require.NoError(t, err)

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", vars["RECALL_DB_DRIVER"])
	assert.Equal(t, "postgres://u:p@localhost/recall", vars["RECALL_DB_DSN"])
	assert.Equal(t, ":9000", vars["RECALL_HTTP_ADDR"])
	assert.Equal(t, "true", vars["ENABLE_TELEGRAM"])
	assert.Equal(t, "123:abc", vars["TELEGRAM_TOKEN"])
	assert.NotContains(t, vars, "DIGEST_ENABLED")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = SaveEnv(dir, cfg)
	assert.ErrorContains(t, err, "already exists")
}

func TestWizard_SQLiteWithoutTelegram(t *testing.T) {
	m, dir := newTestModel(t)

	// driver, http addr (default), telegram token (empty); dsn and digest never asked
	m = send(m, enter(), enter(), enter())

	final := m.(model)
	require.NoError(t, final.err)
	assert.Equal(t, filepath.Join(dir, ".env"), final.savedTo)

	vars, err := godotenv.Read(final.savedTo)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", vars["RECALL_DB_DRIVER"])
	assert.NotContains(t, vars, "RECALL_DB_DSN")
	assert.NotContains(t, vars, "TELEGRAM_TOKEN")
}

func TestWizard_PostgresAndTelegram(t *testing.T) {
	m, dir := newTestModel(t)

	m = send(m, down(), enter())

	// an empty DSN is rejected and the step stays
	m = send(m, enter())
	assert.Contains(t, m.View(), "required")

	m = typeText(m, "postgres://x")
	m = send(m, enter(), enter())
	m = typeText(m, "1:a")
	m = send(m, enter(), enter())

	final := m.(model)
	require.NoError(t, final.err)

	vars, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "postgres", vars["RECALL_DB_DRIVER"])
	assert.Equal(t, "postgres://x", vars["RECALL_DB_DSN"])
	assert.Equal(t, "1:a", vars["TELEGRAM_TOKEN"])
	assert.Equal(t, "true", vars["ENABLE_TELEGRAM"])
	assert.Equal(t, "true", vars["DIGEST_ENABLED"])
}

func TestWizard_BackSkipsStepsThatNoLongerApply(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(m, down(), enter()) // postgres
	assert.IsType(t, &PostgresDSNStep{}, m.(model).steps[m.(model).current])

	m = send(m, esc(), tea.KeyMsg{Type: tea.KeyUp}, enter()) // back, pick sqlite
	assert.IsType(t, &HTTPAddrStep{}, m.(model).steps[m.(model).current])

	m = send(m, esc())
	assert.IsType(t, &DatabaseStep{}, m.(model).steps[m.(model).current])

	// esc on the first question does nothing
	m = send(m, esc())
	assert.IsType(t, &DatabaseStep{}, m.(model).steps[m.(model).current])
}

func TestWizard_SaveFailureKeepsWizardOpen(t *testing.T) {
	m, dir := newTestModel(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("X=1\n"), 0600))

	m = send(m, enter(), enter(), enter())

	final := m.(model)
	assert.ErrorContains(t, final.err, "already exists")
	assert.Empty(t, final.savedTo)
	assert.Contains(t, m.View(), "already exists")
}

func TestDigestStep_Toggle(t *testing.T) {
	state := NewInstallState()
	step := NewDigestStep()
	assert.False(t, step.Applies(state))

	state.Config.TelegramToken = "1:a"
	assert.True(t, step.Applies(state))

	done, _ := step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, state)
	assert.False(t, done)
	done, _ = step.Update(enter(), state)
	assert.True(t, done)
	assert.False(t, state.Config.DigestEnabled)
}

func TestFinalize(t *testing.T) {
	state := NewInstallState()
	state.Config.DigestEnabled = true
	state.Config.DBDSN = "leftover"
	finalize(state)
	assert.False(t, state.Config.EnableTelegram)
	assert.False(t, state.Config.DigestEnabled)
	assert.Empty(t, state.Config.DBDSN)

	state.Config.TelegramToken = "1:a"
	state.Config.DigestEnabled = true
	finalize(state)
	assert.True(t, state.Config.EnableTelegram)
	assert.True(t, state.Config.DigestEnabled)
}
