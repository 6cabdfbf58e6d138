package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host string
	Port int
}

func (h HTTP) Addr() string { return fmt.Sprintf("%s:%d", h.Host, h.Port) }

type DB struct {
	Driver string // sqlite, mysql or postgres
	DSN    string
}

type Redis struct {
	Addr     string // empty disables the list cache
	Password string
	DB       int
	TTL      time.Duration
}

type Config struct {
	HTTP    HTTP
	DB      DB
	Redis   Redis
	Seed    bool
	Version string
}

// Load reads the yaml file at path when present and applies USERGRID_*
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("USERGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backend.host", "127.0.0.1")
	v.SetDefault("backend.port", 8080)
	v.SetDefault("backend.db.driver", "sqlite")
	v.SetDefault("backend.db.dsn", filepath.Join(os.TempDir(), "user-grid", "users.db"))
	v.SetDefault("backend.redis.addr", "")
	v.SetDefault("backend.redis.password", "")
	v.SetDefault("backend.redis.db", 0)
	v.SetDefault("backend.redis.ttl", time.Minute)
	v.SetDefault("backend.seed", true)
	v.SetDefault("backend.version", "1.0.0")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		HTTP: HTTP{Host: v.GetString("backend.host"), Port: v.GetInt("backend.port")},
		DB:   DB{Driver: strings.ToLower(v.GetString("backend.db.driver")), DSN: v.GetString("backend.db.dsn")},
		Redis: Redis{
			Addr:     v.GetString("backend.redis.addr"),
			Password: v.GetString("backend.redis.password"),
			DB:       v.GetInt("backend.redis.db"),
			TTL:      v.GetDuration("backend.redis.ttl"),
		},
		Seed:    v.GetBool("backend.seed"),
		Version: v.GetString("backend.version"),
	}
	if cfg.HTTP.Port <= 0 {
		return nil, fmt.Errorf("invalid backend.port %d", cfg.HTTP.Port)
	}
	switch cfg.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported backend.db.driver %q", cfg.DB.Driver)
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Minute
	}
	return cfg, nil
}
