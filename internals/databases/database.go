package database

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	feeModel "feeportal_backend/internals/features/finance/fees/model"
	helperAuth "feeportal_backend/internals/helpers/auth"
)

var DB *gorm.DB

// DSN membangun URL postgres + statement_timeout.
func DSN(c configs.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("application_name", "feeportal")
	if c.StatementTimeout > 0 {
		q.Set("options", fmt.Sprintf("-c statement_timeout=%d", c.StatementTimeout.Milliseconds()))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func ConnectDB(c configs.DBConfig, logger *zap.Logger) (*gorm.DB, error) {
	logger.Info("🔌 Koneksi ke PostgreSQL...", zap.String("host", c.Host), zap.String("db", c.Name))

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(c),
		PreferSimpleProtocol: true, // cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(logger, c.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	DB = db
	logger.Info("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB, c configs.DBConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// AutoMigrate hanya untuk dev; produksi pakai migrasi SQL.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&feeModel.StudentFeeModel{},
		&feeModel.FeePaymentModel{},
		&helperAuth.TokenBlacklistModel{},
	)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
