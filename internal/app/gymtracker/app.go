package gymtracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/gym-tracker/internal/cache"
	"github.com/magabrotheeeer/gym-tracker/internal/config"
	"github.com/magabrotheeeer/gym-tracker/internal/events"
	grpchealth "github.com/magabrotheeeer/gym-tracker/internal/grpc/health"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/metrics"
	"github.com/magabrotheeeer/gym-tracker/internal/migrations"
	authservice "github.com/magabrotheeeer/gym-tracker/internal/services/auth"
	categoryservice "github.com/magabrotheeeer/gym-tracker/internal/services/category"
	statsservice "github.com/magabrotheeeer/gym-tracker/internal/services/stats"
	trainingservice "github.com/magabrotheeeer/gym-tracker/internal/services/training"
	userservice "github.com/magabrotheeeer/gym-tracker/internal/services/user"
	"github.com/magabrotheeeer/gym-tracker/internal/storage/repository"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 10 * time.Second
)

// App собранное приложение: HTTP API, gRPC health и их зависимости.
type App struct {
	server   *http.Server
	grpc     *grpchealth.Server
	grpcAddr string
	logger   *slog.Logger
	db       *repository.Storage
	closers  []func() error
}

// New создаёт хранилище, при необходимости применяет миграции и
// подключает необязательные redis и RabbitMQ. Пустые адреса в конфиге
// отключают кэш и публикацию событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.Migrate {
		if err := migrations.Up(cfg.Driver, cfg.DSN); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied", slog.String("driver", cfg.Driver))
	}

	db, err := repository.New(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	app := &App{
		logger:   logger,
		db:       db,
		grpcAddr: cfg.AddressGRPC,
	}

	var categoryCache categoryservice.Cache = cache.Nop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		categoryCache = redisCache
		app.closers = append(app.closers, redisCache.Close)
	} else {
		logger.Info("redis address is empty, category cache disabled")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := events.New(logger, cfg.RabbitMQ)
		if err != nil {
			app.close()
			return nil, err
		}
		publisher = amqpPublisher
		app.closers = append(app.closers, amqpPublisher.Close)
	} else {
		logger.Info("rabbitmq url is empty, user events disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	svc := Services{
		Auth:       authservice.New(db, jwtMaker),
		Users:      userservice.New(db, publisher, logger),
		Categories: categoryservice.New(db, categoryCache, logger),
		Trainings:  trainingservice.New(db, logger),
		Stats:      statsservice.New(db),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, svc, db, metrics.New(), cfg.RateLimit)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	if cfg.AddressGRPC != "" {
		app.grpc = grpchealth.New(logger, db, healthCheckInterval)
	}
	return app, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает серверы
// и освобождает ресурсы.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	var lis net.Listener
	if a.grpc != nil {
		var err error
		if lis, err = net.Listen("tcp", a.grpcAddr); err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	})

	if lis != nil {
		g.Go(func() error {
			return a.grpc.Serve(gctx, lis)
		})
	}

	return g.Wait()
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}
