// @title        Booking API
// @version      1.0
// @description  Account registration, login and role-based access for the booking platform.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/bookingweb/booking-api/internal/api"
	"github.com/bookingweb/booking-api/internal/api/handler"
	"github.com/bookingweb/booking-api/internal/core/ports"
	"github.com/bookingweb/booking-api/internal/core/service"
	"github.com/bookingweb/booking-api/internal/infrastructure/db/mongo"
	"github.com/bookingweb/booking-api/internal/infrastructure/db/postgres"
	"github.com/bookingweb/booking-api/internal/infrastructure/db/redis"
	"github.com/bookingweb/booking-api/internal/infrastructure/db/sqlite"
	"github.com/bookingweb/booking-api/internal/pkg/config"
	"github.com/bookingweb/booking-api/pkg/logger"
)

var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "booking-api",
	})

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("credential store ready")

	health := map[string]handler.Pinger{cfg.StoreDriver: store.pinger}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redis.NewLoginThrottle(rdb, cfg.Security.LoginMaxAttempts, cfg.Security.LoginLockWindow)
		health["redis"] = redis.NewPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttle enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttle disabled")
	}

	codec, err := service.NewTokenCodec(cfg.JWT.Secret, cfg.TokenLifetime())
	if err != nil {
		return err
	}
	hasher := service.NewBcryptHasher(cfg.Security.BcryptCost)
	identities := service.NewIdentityProvider(store.repo)
	authenticator, err := service.NewAuthenticator(identities, hasher)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		AuthService:    service.NewAuthService(store.repo, authenticator, hasher, codec, throttle, log),
		AccountService: service.NewAccountService(store.repo, log),
		Tokens:         codec,
		Identities:     identities,
		Health:         health,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		AllowOrigins:   cfg.CORS.AllowOrigins,
		Log:            log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

type accountStore struct {
	repo   ports.AccountRepository
	pinger handler.Pinger
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config) (*accountStore, error) {
	log := logger.Get()

	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewAccountRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &accountStore{repo: repo, pinger: pool, close: pool.Close}, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &accountStore{
			repo:   sqlite.NewAccountRepository(db),
			pinger: handler.PingerFunc(db.PingContext),
			close:  closeLogged(log, "sqlite", db.Close),
		}, nil

	default:
		store, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		repo := mongo.NewAccountRepository(store.Database())
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &accountStore{
			repo:   repo,
			pinger: store,
			close: closeLogged(log, "mongo", func() error {
				return store.Close(context.Background())
			}),
		}, nil
	}
}

func closeLogged(log zerolog.Logger, name string, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			log.Warn().Err(err).Str("store", name).Msg("close failed")
		}
	}
}
