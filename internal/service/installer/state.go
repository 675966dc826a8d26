package installer

import "github.com/sandevgo/recall/internal/config"

type InstallState struct {
	Config config.InstallConfig
}

func NewInstallState() *InstallState {
	return &InstallState{
		Config: config.InstallConfig{
			DBDriver:   config.DriverSQLite,
			EnableHTTP: true,
			HTTPAddr:   ":8043",
		},
	}
}
