// @title        Carpool API
// @version      1.0
// @description  共乘座位分配與車資計算 API
// @host         localhost:3000
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carpool/internal/cache"
	"carpool/internal/config"
	"carpool/internal/database"
	"carpool/internal/lock"
	"carpool/internal/middleware"
	"carpool/internal/router"
	"carpool/internal/service"
	"carpool/internal/store"
	"carpool/internal/store/sqlite"
	"carpool/internal/worker"
	"carpool/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	_ "carpool/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	openSQLite      = database.OpenSQLite
	migrateSQLite   = database.MigrateSQLite
	newRedisClient  = cache.NewRedisClient
	newWorkerPool   = worker.NewPool
	newLogger       = logger.New
	startServer     = serve
	exitFunc        = os.Exit
)

type options struct {
	initDB  bool
	resetDB bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "carpool",
		Short:         "Carpool seat assignment and fare service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), config.Load(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.initDB, "init-db", false, "apply database migrations and exit")
	cmd.Flags().BoolVar(&opts.resetDB, "reset-db", false, "roll back every migration before applying them (postgres only)")
	return cmd
}

func run(ctx context.Context, cfg config.Config, opts options) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定錯誤: %w", err)
	}
	log := newLogger(cfg.LoggerLevel, cfg.ServiceName)
	defer func() { _ = log.Sync() }()

	st, closeStore, err := openStore(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	if opts.initDB {
		log.Info("database initialized", logger.String("driver", cfg.DBDriver))
		return nil
	}

	var checks []service.Pinger
	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %w", err)
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb, time.Duration(cfg.LockTTLMs)*time.Millisecond, func(err error) {
			log.Warning("seat lock release failed", logger.Error(err))
		})
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	svc := service.New(st, locker, wp, log, checks...)
	e := newServer(cfg, svc, log)

	log.Info("server listening",
		logger.String("addr", cfg.Addr()),
		logger.String("db_driver", cfg.DBDriver),
		logger.Bool("redis_lock", cfg.RedisAddr != ""))
	if err := startServer(ctx, e, cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openStore connects to the configured database and brings its schema up to date.
func openStore(ctx context.Context, cfg config.Config, opts options) (service.Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if opts.resetDB {
			if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
				return nil, nil, fmt.Errorf("RollbackAll 失敗: %w", err)
			}
		}
		if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("Migration 執行失敗: %w", err)
		}
		db, err := newPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("DB 連線失敗: %w", err)
		}
		return store.New(db), db.Close, nil
	default:
		if opts.resetDB {
			return nil, nil, errors.New("--reset-db requires DB_DRIVER=postgres")
		}
		db, err := openSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("DB 連線失敗: %w", err)
		}
		if err := migrateSQLite(db.DB); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("Migration 執行失敗: %w", err)
		}
		return sqlite.New(db), func() { db.Close() }, nil
	}
}

func newServer(cfg config.Config, svc router.Service, log logger.ILogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: []string{cfg.CorsOrigin}}))

	router.Setup(e, svc)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.WebDir != "" {
		e.Static("/", cfg.WebDir)
	}
	return e
}

// serve runs e until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
