package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-lending/internal/config"
	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/user"
)

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&department.Department{},
		&resource.Resource{},
		&loanrequest.LoanRequest{},
		&loan.Loan{},
		&notification.Notification{},
	}
}

// Connect opens the configured database. MySQL schemas are owned by
// cmd/migrate; a SQLite file is brought up to date on open.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return OpenGorm(cfg.MySQLDSN(), WithZap(log))
	case "sqlite":
		gdb, err := OpenSQLite(cfg.SQLitePath, WithZap(log))
		if err != nil {
			return nil, err
		}
		if err := gdb.AutoMigrate(Models()...); err != nil {
			return nil, fmt.Errorf("sqlite auto-migrate: %w", err)
		}
		return gdb, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
