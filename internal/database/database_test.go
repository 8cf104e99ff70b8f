package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiorionjames/dewlist/internal/config"
)

func sqliteConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver: "sqlite",
		DBName: ":memory:",
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "dewlist",
		Password: "pw",
		DBName:   "dewlist",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=db.internal port=5432 user=dewlist password=pw dbname=dewlist sslmode=disable", dsn)
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	db, err := Connect(sqliteConfig())
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))

	// 全部表存在
	for _, table := range []string{"users", "tasks", "task_history", "audit_logs", "password_resets"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// 复合索引存在
	var count int64
	err = db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_tasks_status_owner'").Scan(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 迁移幂等
	require.NoError(t, Migrate(db))

	assert.True(t, CheckHealth(db))
}

func TestCheckHealthNilDB(t *testing.T) {
	assert.False(t, CheckHealth(nil))
}

func TestConnectPoolOverrides(t *testing.T) {
	cfg := sqliteConfig()
	cfg.MaxIdleConns = 3
	cfg.MaxOpenConns = 7

	db, err := Connect(cfg)
	require.NoError(t, err)
	defer Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
}
