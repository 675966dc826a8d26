package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/ui"
	"github.com/sandevgo/recall/pkg/conv"
	"github.com/sandevgo/recall/pkg/log"
)

const DefaultLearnerID = "cli-local"

type Tutor interface {
	Handle(ctx context.Context, learnerID, input string) string
	Commands() []core.Command
}

// ReadLine is an interactive practice session in the terminal.
type ReadLine struct {
	cfg       *config.AppConfig
	tutor     Tutor
	learnerID string
	rl        *readline.Instance
}

func NewReadLine(tutor Tutor, cfg *config.AppConfig, learnerID string) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	if learnerID == "" {
		learnerID = DefaultLearnerID
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.PromptStyle.Render("answer › "),
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(tutor.Commands()),
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		tutor:     tutor,
		learnerID: learnerID,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	ctx = log.WithLearner(ctx, r.learnerID)
	log.FromCtx(ctx).Debug().Msg("practice session started")

	r.print(r.tutor.Handle(ctx, r.learnerID, "/start"))
	fmt.Fprintln(r.rl.Stdout(), ui.DescStyle.Render("Type 'exit' to quit, /help for commands."))

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.print(r.tutor.Handle(ctx, r.learnerID, line))
	}
}

// completer offers every command and alias after a leading slash.
func completer(commands []core.Command) readline.AutoCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, cmd := range commands {
		items = append(items, readline.PcItem("/"+cmd.Name()))
		if a, ok := cmd.(core.Aliased); ok {
			for _, alias := range a.Aliases() {
				items = append(items, readline.PcItem("/"+alias))
			}
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *ReadLine) print(markdown string) {
	text := conv.MarkdownToText([]byte(markdown))
	if text == "" {
		return
	}
	fmt.Fprintln(r.rl.Stdout(), ui.ReplyStyle.Render(text))
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
