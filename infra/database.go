package infra

import (
	"errors"
	"time"

	eventmodel "github.com/cmoyo/payouts/infra/repository/event"
	payoutmodel "github.com/cmoyo/payouts/infra/repository/payout"
	"github.com/cmoyo/payouts/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the Postgres connection used by the repositories.
// TranslateError is required: the payout upsert detects the unique-index
// race through gorm.ErrDuplicatedKey.
func NewDBConnection(cnf *config.DB, appEnv string) (*gorm.DB, error) {
	databaseUrl := cnf.Url
	if databaseUrl == "" {
		return nil, errors.New("DB_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	connection, err := gorm.Open(postgres.Open(databaseUrl), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// AutoMigrate creates or updates the payout and event tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&eventmodel.Event{},
		&payoutmodel.Payout{},
	)
}
