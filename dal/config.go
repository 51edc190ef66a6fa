package dal

import (
	"fmt"
	"time"
)

// Config holds database connection configuration for the executor's pool.
type Config struct {
	// DSN is a full PostgreSQL connection string. When set it takes
	// precedence over the individual fields below.
	DSN string `mapstructure:"dsn"`

	// Host, Port, User, Password and Name mirror the DB_* environment
	// variables the service has always been deployed with.
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	// MaxConns bounds the pool; one connection is checked out per
	// concurrent statement, never shared.
	MaxConns int32 `mapstructure:"max_conns"`

	// MinConns keeps warm connections in the pool.
	MinConns int32 `mapstructure:"min_conns"`

	// ConnMaxLifetime is the maximum time a connection may be reused
	// (e.g. "1h").
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`

	// ConnectTimeout bounds the initial connect and ping (e.g. "5s").
	ConnectTimeout string `mapstructure:"connect_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == "" {
		c.Port = "5432"
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
	if c.MinConns < 0 {
		c.MinConns = 0
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.ConnectTimeout == "" {
		c.ConnectTimeout = "5s"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if c.DSN == "" {
		if c.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Name == "" {
			return fmt.Errorf("database name is required")
		}
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min_conns (%d) must be <= max_conns (%d)", c.MinConns, c.MaxConns)
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime %q: %w", c.ConnMaxLifetime, err)
	}
	if _, err := time.ParseDuration(c.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid connect_timeout %q: %w", c.ConnectTimeout, err)
	}
	return nil
}

// dsn resolves the effective connection string.
func (c *Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.User, c.Password, c.Host, c.Port, c.Name)
}
