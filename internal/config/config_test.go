package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingAPIKeyIsFatal(t *testing.T) {
	t.Setenv("BOOKING_MAPS_API_KEY", "")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "BOOKING_MAPS_API_KEY")
}

func TestLoad_DefaultsWithAPIKey(t *testing.T) {
	t.Setenv("BOOKING_MAPS_API_KEY", "test-key")
	t.Setenv("BOOKING_DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Maps.APIKey)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "919876543210", cfg.WhatsAppNumber)
	assert.InDelta(t, 12.9629, cfg.Maps.BiasLatitude, 1e-9)
	assert.InDelta(t, 77.5775, cfg.Maps.BiasLongitude, 1e-9)
	assert.Equal(t, 30000, cfg.Maps.SearchRadiusMeters)
	assert.Equal(t, 4*time.Second, cfg.Maps.AutocompleteTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Picker.DebounceWait)
	assert.Equal(t, 5*time.Second, cfg.Picker.LocateTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Picker.IdleTimeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Nil(t, cfg.DB, "no DB host configured means the place cache is disabled")
}

func TestLoad_DatabaseEnabledByHost(t *testing.T) {
	t.Setenv("BOOKING_MAPS_API_KEY", "test-key")
	t.Setenv("BOOKING_DB_HOST", "db.internal")
	t.Setenv("BOOKING_DB_USER", "booking")
	t.Setenv("BOOKING_DB_PASSWORD", "secret")
	t.Setenv("BOOKING_DB_NAME", "places")

	cfg, err := Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.DB)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t,
		"host=db.internal port=5432 user=booking password=secret dbname=places sslmode=disable",
		cfg.DB.DSN())
}
