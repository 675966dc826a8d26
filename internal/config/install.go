package config

// InstallConfig is what the setup wizard writes into the runtime .env file.
type InstallConfig struct {
	DBDriver       string `env:"RECALL_DB_DRIVER" desc:"storage: sqlite3 or postgres"`
	DBDSN          string `env:"RECALL_DB_DSN" desc:"database connection string, defaults to a file in the runtime directory"`
	EnableHTTP     bool   `env:"ENABLE_HTTP" desc:"serve the JSON API"`
	HTTPAddr       string `env:"RECALL_HTTP_ADDR"`
	EnableTelegram bool   `env:"ENABLE_TELEGRAM" desc:"run the Telegram bot"`
	TelegramToken  string `env:"TELEGRAM_TOKEN"`
	DigestEnabled  bool   `env:"DIGEST_ENABLED" desc:"send subscribers a daily progress summary"`
}

// Validate applies the same structural rules the runtime configs enforce.
func (c InstallConfig) Validate() error {
	if err := validate.Var(c.DBDriver, "oneof=sqlite3 postgres"); err != nil {
		return err
	}
	if c.DBDriver == DriverPostgres {
		if err := validate.Var(c.DBDSN, "required"); err != nil {
			return err
		}
	}
	if c.EnableHTTP {
		if err := validate.Var(c.HTTPAddr, "hostname_port"); err != nil {
			return err
		}
	}
	return nil
}
