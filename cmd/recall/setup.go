package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/service/command"
	"github.com/sandevgo/recall/internal/service/digest"
	"github.com/sandevgo/recall/internal/service/trainer"
	"github.com/sandevgo/recall/internal/service/tutor"
	"github.com/sandevgo/recall/internal/storage/database"
	"github.com/sandevgo/recall/internal/transport/httpapi"
	"github.com/sandevgo/recall/internal/transport/telegram"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/srv"
)

// app holds what every subcommand shares: config, storage and the trainer.
type app struct {
	cfg           *config.AppConfig
	db            *sqlx.DB
	questions     *database.QuestionsRepo
	learners      *database.LearnersRepo
	subscriptions *database.SubscriptionsRepo
	trainer       *trainer.Trainer
	tutor         *tutor.Tutor
}

func newApp(ctx context.Context) (*app, error) {
	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	cfg := config.NewAppConfig(ctx)

	db, err := database.NewDB(ctx, cfg.GetDatabaseDriver(), cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &app{
		cfg:           cfg,
		db:            db,
		questions:     database.NewQuestionsRepo(db),
		learners:      database.NewLearnersRepo(db),
		subscriptions: database.NewSubscriptionsRepo(db),
	}

	scheduler := backlog.NewScheduler(backlog.WithResetPolicy(cfg.GetResetPolicy()))
	a.trainer = trainer.NewTrainer(a.learners, a.questions, scheduler)

	router := command.New(command.NewCommands(a.trainer, a.questions))
	a.tutor = tutor.NewTutor(a.trainer, router)

	return a, nil
}

// NewServices builds the long running services for `recall serve`.
func NewServices(ctx context.Context, a *app) ([]srv.Service, error) {
	logger := log.FromCtx(ctx)
	services := []srv.Service{srv.NewCloser(a.db)}

	if n, err := a.questions.CountQuestions(ctx); err == nil && n == 0 {
		logger.Warn().Msg("question catalogue is empty, import some with 'recall seed <file>'")
	}

	if a.cfg.IsHTTPSelected() {
		httpCfg := config.NewHTTPConfig(ctx)
		services = append(services, httpapi.NewServer(ctx, httpCfg, a.trainer))
	}

	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.tutor, a.subscriptions)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)

		digestCfg := config.NewDigestConfig(ctx)
		if digestCfg.Enabled {
			services = append(services, digest.NewDigest(a.subscriptions, a.trainer, a.questions, bot, digestCfg.At))
		}
	}

	if len(services) == 1 {
		return nil, fmt.Errorf("no transport enabled, set ENABLE_HTTP or ENABLE_TELEGRAM")
	}
	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
