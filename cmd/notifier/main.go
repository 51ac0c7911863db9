package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"campus-lending/internal/adapter/repository/mysql"
	"campus-lending/internal/config"
	"campus-lending/internal/infrastructure/cache"
	"campus-lending/internal/infrastructure/db"
	"campus-lending/internal/infrastructure/logger"
	"campus-lending/internal/infrastructure/mail"
	"campus-lending/internal/infrastructure/scheduler"
	"campus-lending/internal/usecase/reminder"
)

func main() {
	daemon := flag.Bool("daemon", false, "stay up and run the reminder pass every day at REMINDER_AT")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("notifier")
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *daemon); err != nil {
		log.Fatal("notifier stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, daemon bool) error {
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

	mailer, err := mail.NewSender(cfg, log)
	if err != nil {
		return err
	}
	opts := []reminder.Option{reminder.WithLocation(loc), reminder.WithLogger(log)}
	if rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
		// cached badges expire on their own TTL
		log.Warn("redis unavailable, unread counters will not be invalidated", zap.Error(err))
	} else {
		defer rdb.Close()
		opts = append(opts, reminder.WithUnreadCache(cache.NewUnreadCounts(rdb, time.Minute)))
	}
	n := reminder.NewNotifier(mysql.NewGormUoW(gdb), mysql.NewRepos(gdb), mailer, opts...)

	job := func(ctx context.Context) error {
		rep, err := n.Run(ctx)
		if err != nil {
			return err
		}
		log.Info("reminder pass done",
			zap.Int("due_soon", rep.DueSoon),
			zap.Int("overdue", rep.Overdue),
			zap.Int("notifications", rep.Notifications),
			zap.Int("skipped", rep.Skipped),
			zap.Int("mails_sent", rep.MailsSent),
			zap.Int("mails_failed", rep.MailsFailed))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !daemon {
		return job(ctx)
	}

	hour, minute, _ := cfg.ReminderClock()
	d := scheduler.NewDaily(scheduler.DailyConfig{Hour: hour, Minute: minute, Location: loc}, job, log)
	d.Start(ctx)
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return d.Stop(stopCtx)
}
