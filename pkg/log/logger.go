package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// Options controls logger construction.
type Options struct {
	Debug bool
	// JSON switches from the console writer to raw JSON lines.
	JSON bool
	// Output defaults to os.Stdout. Stdio transports must pass os.Stderr.
	Output io.Writer
}

// NewContextWithLogger installs the process logger into ctx. The returned
// func flushes buffered events and must run before exit.
func NewContextWithLogger(ctx context.Context, opts Options) (context.Context, func()) {
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	// Non-blocking ring buffer: 1000 messages, 5ms poll.
	wr := diode.NewWriter(out, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "Logger Dropped %d messages\n", missed)
	})

	var sink io.Writer = wr
	if !opts.JSON {
		sink = zerolog.ConsoleWriter{
			Out:        wr,
			TimeFormat: time.DateTime,
			PartsOrder: []string{
				zerolog.LevelFieldName,
				zerolog.TimestampFieldName,
				zerolog.MessageFieldName,
			},
		}
	}

	logger := zerolog.New(sink).
		With().
		Timestamp().
		Str("app", "recall").
		Logger()

	log.Logger = logger

	return log.With().Logger().WithContext(ctx), func() {
		wr.Close()
	}
}

// NewNopContext returns ctx carrying a disabled logger. Handy in tests.
func NewNopContext(ctx context.Context) context.Context {
	l := zerolog.Nop()
	return l.WithContext(ctx)
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// WithLearner returns ctx whose logger tags every event with learnerID.
func WithLearner(ctx context.Context, learnerID string) context.Context {
	l := FromCtx(ctx).With().Str("learner", learnerID).Logger()
	return l.WithContext(ctx)
}
