package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetly/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 720*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 1000, cfg.Cache.Size)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Empty(t, cfg.AMQP.URL)
	assert.Equal(t, "postgres://postgres:@localhost:5432/budgetly?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_SECRET"))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("DB_MAX_OPEN_CONNS", "4")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 4, cfg.DB.MaxOpenConns)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, config.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, config.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, config.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, config.ParseLevel("verbose"))
}

func TestLoadClient_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/ana")
	t.Setenv("BUDGETLY_STATE_PATH", "~/state.db")

	cfg, err := config.LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "/home/ana/state.db", cfg.StatePath)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
}
