package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vehicle-booking/internal/usecase"
	"vehicle-booking/pkg/utils"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// APIServer serves route until ctx is cancelled, then drains in-flight
// requests.
func APIServer(ctx context.Context, route http.Handler, config utils.AppConfig, log *zap.Logger) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      route,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// SessionJanitor removes expired sessions every interval until ctx is done.
func SessionJanitor(ctx context.Context, auth usecase.AuthService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Session janitor stopped")
			return
		case <-ticker.C:
			if _, err := auth.CleanupSessions(ctx); err != nil {
				log.Error("Error cleaning sessions", zap.Error(err))
			}
		}
	}
}
