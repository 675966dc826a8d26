package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/pkg/log"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type AppConfig struct {
	RuntimePath string `env:"RECALL_RUNTIME_PATH" envDefault:".recall"`

	// Storage
	DBDriver string `env:"RECALL_DB_DRIVER" envDefault:"sqlite3" validate:"oneof=sqlite3 postgres"`
	DBDSN    string `env:"RECALL_DB_DSN" validate:"required_if=DBDriver postgres"`

	// What a progress reset keeps: "clear" drops totals and weak items, "keep" retains them.
	ResetPolicy string `env:"RECALL_RESET_POLICY" envDefault:"clear" validate:"oneof=clear keep"`

	// Transport Flags
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	LogFormat string `env:"RECALL_LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
}

// ParseAppConfig reads AppConfig from the environment and validates it.
func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c, nil
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabaseDriver() string {
	return c.DBDriver
}

// GetDatabaseDSN falls back to a SQLite file inside the runtime directory.
func (c AppConfig) GetDatabaseDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return filepath.Join(c.RuntimePath, "recall.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) GetResetPolicy() backlog.ResetPolicy {
	// validated above
	p, _ := backlog.ParseResetPolicy(c.ResetPolicy)
	return p
}

func (c AppConfig) IsHTTPSelected() bool {
	return c.EnableHTTP
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsJSONLog() bool {
	return c.LogFormat == "json"
}
