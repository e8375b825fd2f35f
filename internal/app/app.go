package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/config"
	"github.com/GlebRadaev/rafflehub/internal/handlers"
	"github.com/GlebRadaev/rafflehub/internal/locker"
	"github.com/GlebRadaev/rafflehub/internal/notify"
	"github.com/GlebRadaev/rafflehub/internal/pg"
	"github.com/GlebRadaev/rafflehub/internal/repo"
	memrepo "github.com/GlebRadaev/rafflehub/internal/repo/mem-repo"
	"github.com/GlebRadaev/rafflehub/internal/service"
	"github.com/GlebRadaev/rafflehub/pkg/auth"
	"github.com/GlebRadaev/rafflehub/pkg/clients"
	"github.com/GlebRadaev/rafflehub/pkg/logger"
)

// queuePerWorker bounds pending notifications per notify worker.
const queuePerWorker = 64

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg  *config.Config
	api  *handlers.Handlers
	srv  *service.Services
	repo *repo.Repositories

	pool    *notify.WorkerPool
	closers []func()

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	a.cfg = cfg

	if a.repo, err = a.buildRepositories(ctx); err != nil {
		return err
	}
	lock, err := a.buildLocker(ctx)
	if err != nil {
		return err
	}
	dispatcher := a.buildNotifier()

	a.srv = service.New(a.repo, lock, dispatcher, cfg.MaxTickets)
	a.api = handlers.New(a.srv, auth.NewJWTService(cfg.JWTSecret))

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

// buildRepositories uses Postgres when a DSN is configured and the
// in-process store otherwise.
func (a *Application) buildRepositories(ctx context.Context) (*repo.Repositories, error) {
	if a.cfg.Database == "" {
		zap.L().Warn("DATABASE_URI is empty, using in-memory storage")
		return repo.NewMemory(memrepo.New()), nil
	}

	pool, err := getPgxpool(ctx, a.cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		pool.Close()
		return nil, fmt.Errorf("can't run migrations: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	return repo.New(pg.New(pool), pg.NewTXManager(pool)), nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) buildLocker(ctx context.Context) (service.Locker, error) {
	if a.cfg.RedisAddr == "" {
		return locker.NewLocal(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("can't connect to redis: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			zap.L().Warn("redis close failed", zap.Error(err))
		}
	})
	zap.L().Info("using redis locks", zap.String("addr", a.cfg.RedisAddr))
	return locker.NewRedis(client), nil
}

func (a *Application) buildNotifier() *notify.Dispatcher {
	channels := []notify.Channel{notify.LogChannel{}}

	if a.cfg.TelegramToken != "" {
		bot, err := notify.NewTelegramBot(a.cfg.TelegramToken)
		if err != nil {
			zap.L().Warn("telegram notifications disabled", zap.Error(err))
		} else {
			channels = append(channels, notify.NewTelegram(bot, a.cfg.TelegramAdminChat))
		}
	}
	if a.cfg.WebhookURL != "" {
		channels = append(channels, notify.NewWebhook(clients.NewHTTPClient(), a.cfg.WebhookURL))
	}

	a.pool = notify.NewWorkerPool(a.cfg.NotifyWorkers, a.cfg.NotifyWorkers*queuePerWorker)
	return notify.NewDispatcher(a.pool, channels...)
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Warn("http server shutdown failed", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// shutdown drains queued notifications before closing storage and locks.
func (a *Application) shutdown() {
	if a.pool != nil {
		a.pool.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()
	a.shutdown()

	return appErr
}
