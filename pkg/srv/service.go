package srv

import (
	"context"
	"time"

	"github.com/sandevgo/recall/pkg/log"
)

const shutdownTimeout = 10 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices runs every service in its own goroutine. A service that fails
// to start brings the whole process down through stop.
func StartServices(ctx context.Context, stop context.CancelFunc, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msgf("%T failed", service)
				stop()
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then shuts services down in
// reverse order so that storage closes after the transports using it.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
