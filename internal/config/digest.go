package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recall/pkg/log"
)

type DigestConfig struct {
	Enabled bool `env:"DIGEST_ENABLED" envDefault:"false"`
	// Daily send time, UTC.
	At string `env:"DIGEST_AT" envDefault:"18:00" validate:"datetime=15:04"`
}

func ParseDigestConfig() (*DigestConfig, error) {
	c := &DigestConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid digest config: %w", err)
	}
	return c, nil
}

func NewDigestConfig(ctx context.Context) *DigestConfig {
	c, err := ParseDigestConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Digest config")
	}
	return c
}
