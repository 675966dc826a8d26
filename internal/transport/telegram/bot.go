package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Tutor interface {
	Handle(ctx context.Context, learnerID, input string) string
	Commands() []core.Command
}

type Bot struct {
	bot    *tele.Bot
	cfg    *config.TelegramConfig
	tutor  Tutor
	subs   core.SubscriptionRepository
	sender *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	tutor Tutor,
	subs core.SubscriptionRepository,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		cfg:    cfg,
		tutor:  tutor,
		subs:   subs,
		sender: newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: ignore other bots
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().IsBot {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	if err := b.bot.SetCommands(menu(b.tutor.Commands())); err != nil {
		logger.Warn().Err(err).Msg("failed to publish command menu")
	}

	logger.Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// Notify sends a Markdown message to a chat; used by the progress digest.
func (b *Bot) Notify(ctx context.Context, chatID int64, markdown string) error {
	return b.sender.sendMarkdown(ctx, &tele.Chat{ID: chatID}, markdown, true)
}

// LearnerID maps a Telegram chat to a learner.
func LearnerID(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}

func (b *Bot) handleMessage(c tele.Context) error {
	chatID := c.Chat().ID
	learnerID := LearnerID(chatID)
	ctx := log.WithLearner(c.Get(baseContextKey).(context.Context), learnerID)
	logger := log.FromCtx(ctx)
	text := strings.TrimSpace(c.Text())

	_ = c.Notify(tele.Typing)

	switch command(text) {
	case "start":
		err := b.subs.Subscribe(ctx, core.Subscription{LearnerID: learnerID, ChatID: chatID})
		if err != nil {
			logger.Error().Err(err).Msg("failed to subscribe to digest")
		}
	case "stop":
		if err := b.subs.Unsubscribe(ctx, learnerID); err != nil {
			logger.Error().Err(err).Msg("failed to unsubscribe from digest")
			return c.Send("Could not unsubscribe, please try again later.")
		}
		return b.sender.sendMarkdown(ctx, c.Chat(), "🔕 **Daily digest disabled.** Send /start to enable it again.", false)
	}

	reply := b.tutor.Handle(ctx, learnerID, text)
	if reply == "" {
		return nil
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), reply, false)
}

// menu lists the bot's commands for the Telegram client, with /stop for the digest.
func menu(commands []core.Command) []tele.Command {
	res := make([]tele.Command, 0, len(commands)+1)
	for _, cmd := range commands {
		res = append(res, tele.Command{Text: cmd.Name(), Description: cmd.Description()})
	}
	return append(res, tele.Command{Text: "stop", Description: "Stop the daily progress digest"})
}

// command extracts the command name from "/name@bot args".
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.Fields(text)[0]
	name, _, _ = strings.Cut(strings.TrimPrefix(name, "/"), "@")
	return strings.ToLower(name)
}
