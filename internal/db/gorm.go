package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
)

var Module = fx.Provide(NewGormClient)

type (
	GormForkedModel struct {
		ID        uint64 `gorm:"primarykey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		GormForkedModel
		Email     string `gorm:"unique;not null"`
		Hash      string `gorm:"not null"`
		FirstName *string
		LastName  *string
		Bookmarks []Bookmark
	}

	Bookmark struct {
		GormForkedModel
		Title       string `gorm:"not null"`
		Description *string
		Link        string `gorm:"not null"`
		UserID      uint64 `gorm:"not null;index"`
		User        User   `gorm:"constraint:OnDelete:CASCADE;"`
	}
)

// NewGormClient connects to postgres and ties the pool to the app lifecycle.
func NewGormClient(lc fx.Lifecycle, cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.DSN()), l)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql db")
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(ctx context.Context) error {
			l.Info("Closing database connection pool.")
			return sqlDB.Close()
		},
	})

	return db, nil
}

// Open opens a gorm connection over the given dialector and migrates the schema.
func Open(dialector gorm.Dialector, l *zap.SugaredLogger) (*gorm.DB, error) {
	level := logger.Warn
	if l.Desugar().Core().Enabled(zap.DebugLevel) {
		level = logger.Info
	}
	newLogger := logger.New(zap.NewStdLog(l.Desugar()), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, errors.Wrap(err, "migrate user")
	}
	if err := db.AutoMigrate(&Bookmark{}); err != nil {
		return nil, errors.Wrap(err, "migrate bookmark")
	}

	return db, nil
}
