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

// EnvPrefix namespaces environment overrides, e.g. USERGRID_CONSOLE_API_BASE_URL.
const EnvPrefix = "USERGRID"

type AppConfig struct {
	APIBaseURL string
	APITimeout time.Duration
	LogPath    string
	LogLevel   string
}

// Load reads the yaml file at path if it exists, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (AppConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("console.api.base_url", "http://127.0.0.1:8080")
	v.SetDefault("console.api.timeout", 10*time.Second)
	v.SetDefault("console.log_path", filepath.Join(os.TempDir(), "user-grid", "console.log"))
	v.SetDefault("console.log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := AppConfig{
		APIBaseURL: strings.TrimRight(v.GetString("console.api.base_url"), "/"),
		APITimeout: v.GetDuration("console.api.timeout"),
		LogPath:    v.GetString("console.log_path"),
		LogLevel:   v.GetString("console.log_level"),
	}
	if cfg.APIBaseURL == "" {
		return AppConfig{}, errors.New("console.api.base_url is empty")
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 10 * time.Second
	}
	return cfg, nil
}
