package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/filmgraph/config"
	"github.com/d60-Lab/filmgraph/internal/model"
)

// InitDB 按配置打开数据库并设置连接池
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(parseLogLevel(cfg.Database.LogLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == "sqlite" {
		// sqlite 单写者，统一走一个连接避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate 建表并写入基础字典数据（类型、分级）
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Mpa{},
		&model.Genre{},
		&model.Director{},
		&model.User{},
		&model.Film{},
		&model.Like{},
		&model.FriendRequest{},
		&model.Review{},
		&model.ReviewRating{},
		&model.FeedEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return seed(db)
}

var (
	defaultGenres = []string{"Comedy", "Drama", "Animation", "Thriller", "Documentary", "Action"}
	defaultMpa    = []string{"G", "PG", "PG-13", "R", "NC-17"}
)

func seed(db *gorm.DB) error {
	for i, name := range defaultGenres {
		g := model.Genre{ID: int64(i + 1), Name: name}
		if err := db.Where("id = ?", g.ID).FirstOrCreate(&g).Error; err != nil {
			return fmt.Errorf("seed genre %s: %w", name, err)
		}
	}
	for i, name := range defaultMpa {
		m := model.Mpa{ID: int64(i + 1), Name: name}
		if err := db.Where("id = ?", m.ID).FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("seed mpa %s: %w", name, err)
		}
	}
	return nil
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
