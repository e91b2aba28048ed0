// Command server runs the nKudos recognition API.
//
// @title        nKudos API
// @version      1.0
// @description  Peer recognition: submit kudos, read aggregates and the leaderboard.
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-kudos-backend/docs"
	"github.com/tbourn/go-kudos-backend/internal/config"
	httpapi "github.com/tbourn/go-kudos-backend/internal/http"
	"github.com/tbourn/go-kudos-backend/internal/observability"
	"github.com/tbourn/go-kudos-backend/internal/repo"
	"github.com/tbourn/go-kudos-backend/internal/services"
	"github.com/tbourn/go-kudos-backend/internal/sysutil"
)

const purgeInterval = 10 * time.Minute

var version = "dev"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	sysutil.InstallLogger(sysutil.NewLogger(os.Stderr, cfg.LogPretty, cfg.OTEL.ServiceName,
		sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	users, closeStore, err := openUserStore(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open user store")
	}
	defer closeStore()

	go purgeIdempotency(ctx, repo.NewIdempotencyStore(db, cfg.IdempotencyTTL), purgeInterval)

	gin.SetMode(cfg.GinMode)
	docs.SwaggerInfo.BasePath = cfg.APIBasePath

	r := gin.New()
	httpapi.RegisterRoutes(r, db, users, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.StoreBackend).
			Str("output_mode", cfg.Kudos.OutputMode).
			Str("concurrency", cfg.Kudos.ConcurrencyMode).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}

// openUserStore returns the aggregate store selected by STORE_BACKEND and a
// function releasing its resources.
func openUserStore(ctx context.Context, cfg config.Config, db *gorm.DB) (services.UserStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := repo.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisStore(client), func() { _ = client.Close() }, nil
	case config.BackendMemory:
		return repo.NewMemoryStore(), func() {}, nil
	default:
		return repo.NewSQLStore(db), func() {}, nil
	}
}

// purgeIdempotency deletes expired idempotency records every interval until
// ctx is done.
func purgeIdempotency(ctx context.Context, store *repo.IdempotencyStore, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := store.Purge(ctx, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("idempotency purge")
			}
		}
	}
}
