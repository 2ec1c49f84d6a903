package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/domain"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres("file:glowbook.db"))
	assert.False(t, IsPostgres(""))
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:db_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Connect(dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range []any{&domain.User{}, &domain.Profile{}, &domain.Service{}, &domain.Booking{}, &domain.Message{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}
