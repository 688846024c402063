package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"codestats-proxy/internal/config"
	"codestats-proxy/internal/constants"
	fxmodules "codestats-proxy/internal/fx"
	"codestats-proxy/internal/server"
	"codestats-proxy/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	statsServer *server.StatsServer,
	statsSvc *service.StatsService,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           statsServer.Router(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			err := srv.Shutdown(shutdownCtx)
			if err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
			}

			statsSvc.Wait()
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			if err != nil {
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
