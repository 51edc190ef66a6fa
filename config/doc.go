// Package config loads and validates the identity service configuration.
//
// Viper reads an optional config.yml, then a .env file and the process
// environment override it. Only a fixed set of environment variables is
// bound (SECRET_KEY, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME,
// DATABASE_URL, LOG_LEVEL, LOG_FORMAT, TOKEN_TTL, ENVIRONMENT), matching
// the names the service has always been deployed with.
//
// # Usage
//
//	cfg, err := config.Load()
package config
