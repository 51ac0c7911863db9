package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httpadp "campus-lending/internal/adapter/http"
	"campus-lending/internal/adapter/middleware"
	"campus-lending/internal/adapter/repository/mysql"
	"campus-lending/internal/config"
	"campus-lending/internal/infrastructure/auth"
	"campus-lending/internal/infrastructure/cache"
	"campus-lending/internal/infrastructure/db"
	"campus-lending/internal/infrastructure/logger"
	"campus-lending/internal/infrastructure/mail"
	"campus-lending/internal/infrastructure/pdf"
	"campus-lending/internal/infrastructure/storage"
	"campus-lending/internal/usecase/account"
	"campus-lending/internal/usecase/inventory"
	"campus-lending/internal/usecase/lending"
	"campus-lending/internal/usecase/notification"
	"campus-lending/internal/usecase/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, _ := cfg.Location()

	gdb, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()
	unread := cache.NewUnreadCounts(rdb, time.Minute)

	ctx := context.Background()
	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	mailer, err := mail.NewSender(cfg, log)
	if err != nil {
		return err
	}
	renderer := pdf.NewChromeRenderer(pdf.ChromeConfig{
		RemoteURL: cfg.ChromeURL,
		NoSandbox: true,
		Logger:    log.Named("pdf"),
	})
	defer renderer.Close()

	repos := mysql.NewRepos(gdb)
	tx := mysql.NewGormUoW(gdb)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	accounts := account.NewUsecase(repos.Users, repos.Departments, auth.NewPasswords(bcrypt.DefaultCost), tokens, log.Named("account"))
	manager := lending.NewManager(tx, repos, renderer, store, mailer,
		lending.WithLocation(loc),
		lending.WithMinLeadDays(cfg.MinLeadDays),
		lending.WithLogger(log.Named("lending")),
		lending.WithUnreadCache(unread),
		lending.WithSealURL(cfg.ContractSeal),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.RequestID(), middleware.RequestLogger(log.Named("http")), echomw.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "database", Ping: sqlDB.PingContext},
			httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Auth:          httpadp.NewAuthHandler(accounts, log),
		Catalog:       httpadp.NewCatalogHandler(inventory.NewUsecase(repos, tx, log.Named("inventory")), log),
		Requests:      httpadp.NewRequestHandler(manager, log),
		Loans:         httpadp.NewLoanHandler(manager, log),
		Notifications: httpadp.NewNotificationHandler(notification.NewUsecase(repos.Notifications, unread, log), log),
		Stats:         httpadp.NewStatsHandler(stats.NewUsecase(repos, stats.WithLocation(loc)), log),
	},
		middleware.Auth(accounts, log),
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log.Named("idempotency")),
	)

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv), zap.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
