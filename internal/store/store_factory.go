package store

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"notifyd/internal/config"
	"notifyd/internal/repository"
	"notifyd/internal/store/memory"
	"notifyd/internal/store/mysql"
)

func NewStore(cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	if cfg.MySQLDSN == "" {
		logger.Warn("MYSQL_DSN not set, using in-memory store")
		return memory.New(logger), nil
	}
	sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("mysql open failed", zap.Error(err))
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Error("mysql ping failed", zap.Error(err))
		return nil, err
	}
	return mysql.New(sqlDB, logger), nil
}

func NewNotificationRepository(s repository.Store) repository.NotificationRepository {
	return s
}

func NewPreferenceRepository(s repository.Store) repository.PreferenceRepository {
	return s
}
