package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

const learnerHeader = "X-Learner-ID"

type Server struct {
	cfg      *config.HTTPConfig
	trainer  core.Trainer
	validate *validator.Validate
	srv      *http.Server
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, trainer core.Trainer) *Server {
	s := &Server{
		cfg:      cfg,
		trainer:  trainer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	return s
}

// Routes mirrors the quiz API: one due question per learner.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthCheck)

	mux.Handle("GET /api/question", s.withLearner(s.getQuestion))
	mux.Handle("POST /api/question", s.withLearner(s.postAnswer))
	mux.Handle("PUT /api/question/reset", s.withLearner(s.resetProgress))
	mux.Handle("GET /api/user/progress", s.withLearner(s.getProgress))

	return logRequests(mux)
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http api")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
