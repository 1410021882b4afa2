package database

import (
	"context"
	"testing"

	"socialpulse/pkg/database/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

func TestConnectAndMigrate(t *testing.T) {
	assert.Error(t, Ping(context.Background()))

	Connect(sqlite.Open("file::memory:"), gormlogger.Discard)
	t.Cleanup(func() {
		_ = SQLDB.Close()
		DB, SQLDB = nil, nil
	})
	SQLDB.SetMaxOpenConns(1)

	require.NoError(t, Ping(context.Background()))
	require.NoError(t, migrations.Migrate(DB))
	assert.True(t, DB.Migrator().HasTable("chat_messages"))
}
