// Package testutil 测试专用的辅助函数，只被 _test.go 引用
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/config"
	"github.com/d60-Lab/filmgraph/pkg/database"
)

// NewDB 为每个测试创建独立的内存 sqlite 库并完成迁移
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	}}
	db, err := database.InitDB(cfg)
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
