package store

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/madaris/daftar/internal/config"
)

// Open connects the sqlite store and migrates the schema. The single-file
// database lives wherever the config points, typically next to the binary.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	if err := db.AutoMigrate(
		&School{},
		&Student{},
		&Installment{},
		&AdditionalFee{},
		&StaffMember{},
		&ExternalIncome{},
		&Expense{},
		&SubjectGrade{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	log.Named("store").Info("database ready", zap.String("path", cfg.Database.Path))
	return db, nil
}

func registerClose(lc fx.Lifecycle, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}

var Module = fx.Module("store",
	fx.Provide(Open),
	fx.Provide(NewRepository),
	fx.Invoke(registerClose),
)
