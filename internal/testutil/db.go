// Package testutil 给各层测试提供一个真实可用的数据库
package testutil

import (
	"path/filepath"
	"testing"

	"ShengHang/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB 每个测试一个独立的SQLite文件。只开一个连接，并发请求在连接池上排队，效果等同于串行化事务
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, model.AutoMigrate(db))
	return db
}

// CreateUser 建一个普通用户或管理员
func CreateUser(t testing.TB, db *gorm.DB, username string, isAdmin bool) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: "x", IsAdmin: isAdmin}
	require.NoError(t, db.Create(user).Error)
	return user
}
