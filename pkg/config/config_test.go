package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, "18285835000109", cfg.Backend.CompanyCNPJ)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "memory")
	v.Set("LOGIN_RETRY_BASE_DELAY", "2")
	v.Set("BACKEND_TIMEOUT", "1m")
	v.Set("HTTP_PORT", "9191")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, time.Minute, cfg.Backend.Timeout)
	assert.Equal(t, 9191, cfg.HTTP.Port)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "sqlite")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "lv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/lv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
