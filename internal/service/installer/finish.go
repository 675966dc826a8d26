package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/pkg/env"
)

// finalize derives flags that follow from other answers.
func finalize(state *InstallState) {
	state.Config.EnableTelegram = state.Config.TelegramToken != ""
	if !state.Config.EnableTelegram {
		state.Config.DigestEnabled = false
	}
	if state.Config.DBDriver != config.DriverPostgres {
		state.Config.DBDSN = ""
	}
}

func complete(runtimePath string, state *InstallState) (string, error) {
	finalize(state)
	if err := state.Config.Validate(); err != nil {
		return "", err
	}
	return SaveEnv(runtimePath, state.Config)
}

// SaveEnv writes cfg to dir/.env and refuses to overwrite an existing file.
func SaveEnv(dir string, cfg config.InstallConfig) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return "", fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to render .env: %w", err)
	}

	// may hold a bot token and a database password
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return "", err
	}
	return envPath, nil
}
