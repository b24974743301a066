package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Run("missing jwt secret fails", func(t *testing.T) {
		t.Setenv("AGRIBID_JWT_SECRET", "")
		t.Setenv("AGRIBID_ADMIN_SECRET", "admin")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("missing admin secret fails", func(t *testing.T) {
		t.Setenv("AGRIBID_JWT_SECRET", "jwt")
		t.Setenv("AGRIBID_ADMIN_SECRET", "")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("both secrets present", func(t *testing.T) {
		t.Setenv("AGRIBID_JWT_SECRET", "jwt")
		t.Setenv("AGRIBID_ADMIN_SECRET", "admin")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "jwt", cfg.Auth.JWTSecret)
		assert.Equal(t, "admin", cfg.Auth.AdminSecret)
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AGRIBID_JWT_SECRET", "jwt")
	t.Setenv("AGRIBID_ADMIN_SECRET", "admin")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "agribid_session", cfg.Auth.SessionCookie)
	assert.NotZero(t, cfg.Sweeper.Interval)
	assert.NotZero(t, cfg.Sweeper.BatchSize)
}
