package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BOOKMARKER_JWT_SECRET", "secret")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:1323", cfg.HTTPAddr())
		assert.Equal(t, "0.0.0.0:9000", cfg.GRPCAddr())
		assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
		assert.Equal(t, 10, cfg.BcryptCost)
		assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
		assert.Equal(t, "host=0.0.0.0 user=user password=password dbname=db port=5432 sslmode=disable", cfg.DSN())
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("BOOKMARKER_JWT_SECRET", "secret")
		t.Setenv("BOOKMARKER_PORT", "8080")
		t.Setenv("BOOKMARKER_JWT_TTL", "1h")
		t.Setenv("BOOKMARKER_DB_SSL_MODE", "require")
		t.Setenv("BOOKMARKER_CORS_ALLOW_ORIGINS", "http://a.com,http://b.com")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, time.Hour, cfg.JWTTTL)
		assert.Equal(t, "require", cfg.DBSSLMode)
		assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CORSAllowOrigins)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("BOOKMARKER_JWT_SECRET", "")

		_, err := NewConfig()
		assert.Error(t, err)
	})

	t.Run("bad ssl mode", func(t *testing.T) {
		t.Setenv("BOOKMARKER_JWT_SECRET", "secret")
		t.Setenv("BOOKMARKER_DB_SSL_MODE", "verify-full")

		_, err := NewConfig()
		assert.Error(t, err)
	})

	t.Run("bad bcrypt cost", func(t *testing.T) {
		t.Setenv("BOOKMARKER_JWT_SECRET", "secret")
		t.Setenv("BOOKMARKER_BCRYPT_COST", "2")

		_, err := NewConfig()
		assert.Error(t, err)
	})
}
