package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/finny-schedules/internal/config"
	"github.com/MrJamesThe3rd/finny-schedules/internal/database"
	"github.com/MrJamesThe3rd/finny-schedules/internal/export"
	finnyHttp "github.com/MrJamesThe3rd/finny-schedules/internal/http"
	exportHandler "github.com/MrJamesThe3rd/finny-schedules/internal/http/export"
	scheduleHandler "github.com/MrJamesThe3rd/finny-schedules/internal/http/schedule"
	txHandler "github.com/MrJamesThe3rd/finny-schedules/internal/http/transaction"
	"github.com/MrJamesThe3rd/finny-schedules/internal/lock"
	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
	scheduleStore "github.com/MrJamesThe3rd/finny-schedules/internal/schedule/store"
	"github.com/MrJamesThe3rd/finny-schedules/internal/scheduler"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
	txStore "github.com/MrJamesThe3rd/finny-schedules/internal/transaction/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	var (
		transactionService = transaction.NewService(txStore.New(db))
		scheduleService    = schedule.NewService(scheduleStore.New(db), lock.Bounded(locker, cfg.Scheduler.LockWait),
			schedule.WithLocation(loc),
			schedule.WithLogger(logger),
		)
		exportService = export.NewService(scheduleService)
	)

	sweeper := scheduler.New(scheduleService,
		scheduler.WithSpec(cfg.Scheduler.Sweep),
		scheduler.WithWorkers(cfg.Scheduler.Workers),
		scheduler.WithLocation(loc),
		scheduler.WithLogger(logger),
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		scheduleH    = scheduleHandler.NewHandler(scheduleService, sweeper)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := finnyHttp.New(finnyHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}, transactionH, scheduleH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sweeper.Start(gctx)
	})

	g.Go(func() error {
		slog.Info("starting server", "port", srv.Addr, "app", cfg.App.Name)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newLocker picks the Redis locker when an address is configured so that
// several instances can share one database.
func newLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (lock.Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		slog.Info("using in-process series locks")
		return lock.NewKeyed(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}

	slog.Info("using redis series locks", "addr", cfg.Redis.Addr)

	return lock.NewRedis(rdb, cfg.Redis.LockTTL, logger), func() { rdb.Close() }, nil
}
