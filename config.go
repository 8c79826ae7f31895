package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "todo.toml"

// Config holds everything the server needs to run. Values resolve in
// priority order: built-in defaults, then an optional TOML file, then
// TODO_* environment variables.
type Config struct {
	Addr     string         `toml:"addr"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Admin    AdminConfig    `toml:"admin"`
}

type DatabaseConfig struct {
	Dialect string `toml:"dialect"`
	DSN     string `toml:"dsn"`
}

type AuthConfig struct {
	Secret            string `toml:"secret"`
	AccessTTLMinutes  int    `toml:"access_ttl_minutes"`
	RefreshTTLMinutes int    `toml:"refresh_ttl_minutes"`
}

// AdminConfig describes the administrator account seeded at startup.
// Seeding is skipped when no password is configured.
type AdminConfig struct {
	UserName string `toml:"username"`
	PassWord string `toml:"password"`
}

func (c AuthConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLMinutes) * time.Minute
}

// LoadConfig resolves the configuration. When path is empty the default
// config file is read if it exists; a missing default file is fine.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Addr:     ":8080",
		Database: DatabaseConfig{Dialect: DialectSQLite, DSN: "todo.db"},
		Auth:     AuthConfig{AccessTTLMinutes: 15, RefreshTTLMinutes: 3 * 24 * 60},
		Admin:    AdminConfig{UserName: "admin"},
	}

	file := path
	if file == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			file = defaultConfigFile
		}
	}
	if file != "" {
		if _, err := toml.DecodeFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", file, err)
		}
	}

	if err := loadConfigEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigEnv(cfg *Config) error {
	if v := os.Getenv("TODO_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TODO_DB_DIALECT"); v != "" {
		cfg.Database.Dialect = v
	}
	if v := os.Getenv("TODO_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("TODO_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("TODO_ACCESS_TTL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing TODO_ACCESS_TTL_MINUTES: %w", err)
		}
		cfg.Auth.AccessTTLMinutes = n
	}
	if v := os.Getenv("TODO_REFRESH_TTL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing TODO_REFRESH_TTL_MINUTES: %w", err)
		}
		cfg.Auth.RefreshTTLMinutes = n
	}
	if v := os.Getenv("TODO_ADMIN_USERNAME"); v != "" {
		cfg.Admin.UserName = v
	}
	if v := os.Getenv("TODO_ADMIN_PASSWORD"); v != "" {
		cfg.Admin.PassWord = v
	}
	return nil
}

func (c Config) validate() error {
	if c.Auth.Secret == "" {
		return errors.New("auth secret is required (set auth.secret or TODO_AUTH_SECRET)")
	}
	if _, ok := schemaStatements[c.Database.Dialect]; !ok {
		return fmt.Errorf("unsupported database dialect %q", c.Database.Dialect)
	}
	if c.Auth.AccessTTLMinutes <= 0 || c.Auth.RefreshTTLMinutes <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	// The seed password goes through bcrypt, which caps input at 72 bytes
	if len(c.Admin.PassWord) > 72 {
		return errors.New("admin password must be at most 72 characters")
	}
	return nil
}
