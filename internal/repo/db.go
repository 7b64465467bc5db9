package repo

import (
	"scramble-service/internal/config"
	"scramble-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the SQL backend for internal/history, chosen by
// database.driver. Schema migration is left to the service container, which
// owns the history service and runs it once at startup.
func InitDB() {
	cfg := config.GlobalConfig.Database
	dialector, err := dialectorFor(cfg.Driver, cfg.DSN)
	if err != nil {
		logger.Log.Fatal("unsupported database driver", zap.String("driver", cfg.Driver), zap.Error(err))
	}

	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.String("driver", cfg.Driver), zap.Error(err))
	}
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, errUnsupportedDriver(driver)
	}
}

type errUnsupportedDriver string

func (e errUnsupportedDriver) Error() string {
	return "unsupported database driver: " + string(e)
}
