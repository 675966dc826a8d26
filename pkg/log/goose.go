package log

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// GooseLogger routes goose output through zerolog. Applied migrations and the
// final version are logged at info, the rest at debug.
type GooseLogger struct {
	logger *zerolog.Logger
}

func NewGooseLoggerFromCtx(ctx context.Context) *GooseLogger {
	l := FromCtx(ctx).With().Str("component", "migrations").Logger()
	return &GooseLogger{logger: &l}
}

func (g *GooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Fatal().Msgf(strings.TrimRight(format, "\n"), v...)
}

func (g *GooseLogger) Printf(format string, v ...interface{}) {
	format = strings.TrimPrefix(strings.TrimRight(format, "\n"), "goose: ")
	ev := g.logger.Debug()
	if strings.HasPrefix(format, "OK") || strings.Contains(format, "migrated database") {
		ev = g.logger.Info()
	}
	ev.Msgf(format, v...)
}
