package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"campus-lending/internal/config"
	"campus-lending/internal/infrastructure/db"
	"campus-lending/internal/infrastructure/logger"
	"campus-lending/internal/infrastructure/migration"
)

const usage = `usage: migrate <command>

commands:
  up          apply all pending migrations
  down        roll back every migration
  steps N     apply N migrations (negative N rolls back)
  version     print the current schema version
  force V     set the version without running anything (dirty recovery)
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("migrate")
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, flag.Args()); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, args []string) error {
	if cfg.DBDriver != "mysql" {
		return fmt.Errorf("migrations target mysql; DB_DRIVER is %q", cfg.DBDriver)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.WithZap(log))
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, errors.New(args[0] + " needs a number")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", args[0], err)
	}
	return n, nil
}
