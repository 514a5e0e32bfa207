package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "hrm-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "hrm", cfg.Database.DBName)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, "lax", cfg.Cookie.SameSite)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.DispatchInterval)
	assert.Equal(t, 15*time.Minute, cfg.Invoice.UnlockTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("development passes with defaults", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.validate())
	})

	t.Run("production rejects wildcard cors", func(t *testing.T) {
		cfg := productionConfig()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires secure cookies", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Cookie.Secure = false
		assert.Error(t, cfg.validate())
	})

	t.Run("production swagger needs auth or ip allowlist", func(t *testing.T) {
		cfg := productionConfig()
		cfg.Swagger.Enabled = true
		assert.Error(t, cfg.validate())

		cfg.Swagger.RequireAuth = true
		assert.NoError(t, cfg.validate())
	})

	t.Run("valid production config", func(t *testing.T) {
		require.NoError(t, productionConfig().validate())
	})
}

func productionConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Database.Password = "secret"
	cfg.Database.SSLMode = "require"
	cfg.Cookie.Secure = true
	return cfg
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "hrm",
		Password: "p@ss/word",
		DBName:   "hrm",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Password with special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
