package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "p2p-lending-backend/internal/adapter/http"
	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/infrastructure/cache"
	"p2p-lending-backend/internal/infrastructure/db"
	"p2p-lending-backend/internal/observability"
	"p2p-lending-backend/internal/usecase/lifecycle"
	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/offer"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api: exiting", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := observability.InitLogger(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		return err
	}
	fee, err := cfg.Fee()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := db.RunMigrations(cfg.MigrateURL()); err != nil {
			return err
		}
		log.Info("migrations applied")
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), strings.EqualFold(cfg.LogLevel, "debug"))
	if err != nil {
		return err
	}
	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	metrics := observability.NewMetrics()

	users := mysql.NewUserRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	offers := mysql.NewOfferRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)

	loanUC := loan.NewUsecase(users, loans, offers, payments, fee, metrics, log)
	offerUC := offer.NewUsecase(loans, offers, metrics, log)
	lifecycleUC := lifecycle.NewUsecase(mysql.NewGormUoW(gdb), metrics, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestLogger(log))

	httpadp.RegisterRoutes(e, httpadp.Routes{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "mysql", Ping: sqlDB.PingContext},
			httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Loans:          httpadp.NewLoanHandler(loanUC),
		Offers:         httpadp.NewOfferHandler(offerUC),
		Lifecycle:      httpadp.NewLifecycleHandler(lifecycleUC),
		Users:          users,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		Metrics:        metrics.Handler(),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
