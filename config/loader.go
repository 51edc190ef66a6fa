package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps deployment environment variables onto nested config
// keys. The DB_* and SECRET_KEY names predate this service and are kept
// so existing deployments work unchanged.
var envBindings = map[string]string{
	"SECRET_KEY":   "token.secret",
	"TOKEN_TTL":    "token.ttl",
	"DATABASE_URL": "database.dsn",
	"DB_HOST":      "database.host",
	"DB_PORT":      "database.port",
	"DB_USER":      "database.user",
	"DB_PASSWORD":  "database.password",
	"DB_NAME":      "database.name",
	"LOG_LEVEL":    "logging.level",
	"LOG_FORMAT":   "logging.format",
	"ENVIRONMENT":  "environment",
}

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string // explicit config.yml path
	EnvFile    string // explicit .env path
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load builds the service configuration. Precedence, lowest to highest:
// defaults, config.yml, .env file, process environment. The returned
// config has defaults applied and has been validated.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.ConfigFile == "" {
		lc.ConfigFile = findFirst("./config.yml", "./config/config.yml")
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findFirst("./.env")
	}

	v := viper.New()

	if lc.ConfigFile != "" && exists(lc.ConfigFile) {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", lc.ConfigFile, err)
		}
	}

	// Populate the process environment from .env before binding, so a
	// dotenv value and a real env var go through the same path.
	if lc.EnvFile != "" && exists(lc.EnvFile) {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", lc.EnvFile, err)
		}
	}
	for env, key := range envBindings {
		if val, ok := os.LookupEnv(env); ok {
			v.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if exists(p) {
			return p
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
