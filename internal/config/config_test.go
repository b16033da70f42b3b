package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneyballs/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Moneyballs", cfg.App.Name)
	assert.Equal(t, config.BackendPostgres, cfg.Ledger.Backend)
	assert.Equal(t, "server", cfg.Ledger.IDs)
	assert.True(t, cfg.Ledger.Ordering)
	assert.False(t, cfg.Ledger.DedupeInserts)
	assert.Equal(t, 5*time.Second, cfg.Ledger.FeedRetry)
	assert.Equal(t, "postgres://postgres:@localhost:5432/moneyballs?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("LEDGER_IDS", "client")
	t.Setenv("LEDGER_ORDERING", "false")
	t.Setenv("DB_NAME", "ledger")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, cfg.Ledger.Backend)
	assert.Equal(t, "client", cfg.Ledger.IDs)
	assert.False(t, cfg.Ledger.Ordering)
	assert.Equal(t, "ledger", cfg.DB.Name)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "Backend", key: "LEDGER_BACKEND", val: "sqlite"},
		{name: "IDs", key: "LEDGER_IDS", val: "random"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
