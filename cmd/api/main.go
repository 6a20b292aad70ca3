// Command api serves the transaction approval HTTP API.
//
//	@title						Transaction Approval API
//	@version					1.0
//	@description				User registration, login and a two-party transaction approval workflow.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paygate/approval-service/internal/api"
	"github.com/paygate/approval-service/internal/core/service"
	"github.com/paygate/approval-service/internal/pkg/config"
	"github.com/paygate/approval-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Service: "approval-service"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "approval-service",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open stores")
	}

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(st.users, tokens, cfg.BcryptCost, log)
	txService := service.NewTransactionService(st.transactions, authService, st.idempotency, log)

	e := api.NewRouter(api.Dependencies{
		AuthService:        authService,
		TransactionService: txService,
		Tokens:             tokens,
		Health:             st.health,
		Logger:             log,
		AuthRateLimit:      cfg.AuthRateLimit,
		AuthRateBurst:      cfg.AuthRateBurst,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := e.Shutdown(shutdownCtx)
		st.Close(shutdownCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
