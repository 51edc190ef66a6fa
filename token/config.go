package token

import (
	"errors"
	"time"
)

// Config configures the token codec.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Secret is the HMAC signing key. Required; tokens are HS256 only.
	Secret string `mapstructure:"secret"`

	// TTL is the default access token lifetime (default: 15m).
	TTL time.Duration `mapstructure:"ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = 15 * time.Minute
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("token: secret is required")
	}
	if c.TTL < 0 {
		return errors.New("token: ttl must not be negative")
	}
	return nil
}
