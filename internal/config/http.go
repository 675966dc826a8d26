package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recall/pkg/log"
)

type HTTPConfig struct {
	Addr         string        `env:"RECALL_HTTP_ADDR" envDefault:":8043" validate:"hostname_port"`
	ReadTimeout  time.Duration `env:"RECALL_HTTP_READ_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	WriteTimeout time.Duration `env:"RECALL_HTTP_WRITE_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	IdleTimeout  time.Duration `env:"RECALL_HTTP_IDLE_TIMEOUT" envDefault:"60s" validate:"gt=0"`
}

func ParseHTTPConfig() (*HTTPConfig, error) {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid http config: %w", err)
	}
	return c, nil
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c, err := ParseHTTPConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
