package account

import "fmt"

// Config configures the account service.
type Config struct {
	// DefaultGrants is the permission set stamped into every issued
	// token (default: [1, 2, 4]). Placeholder policy until a real role
	// model assigns grants per account.
	DefaultGrants []int `mapstructure:"default_grants"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DefaultGrants == nil {
		c.DefaultGrants = []int{1, 2, 4}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	for _, g := range c.DefaultGrants {
		if g < 0 {
			return fmt.Errorf("default_grants must be non-negative (got: %d)", g)
		}
	}
	return nil
}
