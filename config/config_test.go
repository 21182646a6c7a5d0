package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "5432", cfg.DBPort)
	require.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	require.True(t, cfg.StartingCash.Equal(decimal.RequireFromString("10000.00")))
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadStartingCash(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("STARTING_CASH", "2500.50")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.StartingCash.Equal(decimal.RequireFromString("2500.50")))

	t.Setenv("STARTING_CASH", "lots")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("STARTING_CASH", "-5")
	_, err = Load()
	require.Error(t, err)
}
