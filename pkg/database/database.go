package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}

	gormConfig := &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Error),
		PrepareStmt: false,
	}

	var err error
	DB, err = gorm.Open(postgres.New(pgConfig), gormConfig)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("could not get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	slog.Info("database connected")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

func MigrateDatabase(models ...interface{}) error {
	for _, m := range models {
		if !DB.Migrator().HasTable(m) {
			if err := DB.Migrator().CreateTable(m); err != nil {
				return err
			}
			slog.Info("created table", "model", fmt.Sprintf("%T", m))
		} else {
			if err := DB.Migrator().AutoMigrate(m); err != nil {
				return err
			}
		}
	}
	return nil
}
