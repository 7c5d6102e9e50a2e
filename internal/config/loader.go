// Package config loads the catalog configuration: where the store and stash
// locations live, which storage backend serves them, and the backend
// connection settings.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/rpattn/metacat/internal/storage"
)

// Backend names a storage implementation.
const (
	BackendFilesystem = "filesystem"
	BackendPostgres   = "postgres"
	BackendRedis      = "redis"
)

// LocationConfig names one storage location. Path is a directory for the
// filesystem backend and a location name for postgres and redis.
type LocationConfig struct {
	Backend string
	Path    string
}

// Config is the full catalog configuration.
type Config struct {
	Store    LocationConfig
	Stash    LocationConfig
	Postgres storage.PostgresConfig
	Redis    storage.RedisConfig
	Debug    bool
}

// DefaultConfig returns the local-first defaults: both locations on the
// filesystem under ./metadata.
func DefaultConfig() Config {
	return Config{
		Store:    LocationConfig{Backend: BackendFilesystem, Path: "./metadata/store"},
		Stash:    LocationConfig{Backend: BackendFilesystem, Path: "./metadata/stash"},
		Postgres: storage.DefaultPostgresConfig(),
		Redis:    storage.DefaultRedisConfig(),
	}
}

// Load reads configuration from the given file, or from config.yaml in the
// working directory or $HOME/.metacat when the path is empty. A missing
// config file is fine; defaults and environment overrides still apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.metacat")
	}
	v.AutomaticEnv()
	v.SetEnvPrefix("METACAT")

	v.BindEnv("store.backend", "METACAT_STORE_BACKEND")
	v.BindEnv("store.path", "METACAT_STORE_PATH")
	v.BindEnv("stash.backend", "METACAT_STASH_BACKEND")
	v.BindEnv("stash.path", "METACAT_STASH_PATH")
	v.BindEnv("database.host", "METACAT_DATABASE_HOST")
	v.BindEnv("database.port", "METACAT_DATABASE_PORT")
	v.BindEnv("database.user", "METACAT_DATABASE_USER")
	v.BindEnv("database.password", "METACAT_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "METACAT_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "METACAT_DATABASE_SSLMODE")
	v.BindEnv("redis.addr", "METACAT_REDIS_ADDR")
	v.BindEnv("redis.password", "METACAT_REDIS_PASSWORD")
	v.BindEnv("redis.db", "METACAT_REDIS_DB")
	v.BindEnv("debug", "METACAT_DEBUG")

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if v.IsSet("store.backend") {
		cfg.Store.Backend = v.GetString("store.backend")
	}
	if v.IsSet("store.path") {
		cfg.Store.Path = v.GetString("store.path")
	}
	if v.IsSet("stash.backend") {
		cfg.Stash.Backend = v.GetString("stash.backend")
	}
	if v.IsSet("stash.path") {
		cfg.Stash.Path = v.GetString("stash.path")
	}
	if v.IsSet("database.host") {
		cfg.Postgres.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Postgres.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Postgres.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Postgres.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Postgres.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Postgres.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("redis.addr") {
		cfg.Redis.Addr = v.GetString("redis.addr")
	}
	if v.IsSet("redis.password") {
		cfg.Redis.Password = v.GetString("redis.password")
	}
	if v.IsSet("redis.db") {
		cfg.Redis.DB = v.GetInt("redis.db")
	}
	if v.IsSet("debug") {
		cfg.Debug = v.GetBool("debug")
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	for name, loc := range map[string]LocationConfig{"store": cfg.Store, "stash": cfg.Stash} {
		switch loc.Backend {
		case BackendFilesystem, BackendPostgres, BackendRedis:
		default:
			return fmt.Errorf("unknown %s backend %q", name, loc.Backend)
		}
		if loc.Path == "" {
			return fmt.Errorf("%s location has no path", name)
		}
	}
	return nil
}
