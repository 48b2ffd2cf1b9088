package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Budgetly"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"budgetly"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		Secret     string        `envconfig:"AUTH_SECRET" required:"true"`
		SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	}

	Cache struct {
		Size            int           `envconfig:"CACHE_SIZE" default:"1000"`
		TTL             time.Duration `envconfig:"CACHE_TTL" default:"5m"`
		CleanupInterval time.Duration `envconfig:"CACHE_CLEANUP_INTERVAL" default:"1m"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"budgetly.revalidate"`

		ReconnectDelay    time.Duration `envconfig:"AMQP_RECONNECT_DELAY" default:"1s"`
		MaxReconnectDelay time.Duration `envconfig:"AMQP_MAX_RECONNECT_DELAY" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// LogHandler builds the slog handler selected by LOG_LEVEL and LOG_FORMAT.
func (c *Config) LogHandler() slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(c.App.LogLevel)}

	if strings.EqualFold(c.App.LogFormat, "json") {
		return slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.NewTextHandler(os.Stdout, opts)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// Client configures the terminal client.
type Client struct {
	APIURL    string        `envconfig:"BUDGETLY_API_URL" default:"http://localhost:8080"`
	StatePath string        `envconfig:"BUDGETLY_STATE_PATH" default:"~/.budgetly/state.db"`
	LogPath   string        `envconfig:"BUDGETLY_LOG_PATH" default:"~/.budgetly/tui.log"`
	Timeout   time.Duration `envconfig:"BUDGETLY_TIMEOUT" default:"10s"`
}

func LoadClient() (*Client, error) {
	var cfg Client
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process client config: %w", err)
	}

	var err error
	if cfg.StatePath, err = expandHome(cfg.StatePath); err != nil {
		return nil, err
	}

	if cfg.LogPath, err = expandHome(cfg.LogPath); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return home + string(os.PathSeparator) + rest, nil
}
