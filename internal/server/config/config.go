// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the notes server.
//
// Fields:
//   - ListenAddr: bind address for the TCP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - RedisAddr: redis address for the session store. Empty keeps sessions
//     in the primary store.
//   - MaxClients: maximum number of simultaneous connections.
//   - SessionTTL: session lifetime.
type Config struct {
	ListenAddr  string
	DatabaseDSN string
	RedisAddr   string
	MaxClients  int
	SessionTTL  time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values should be overridden for production.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8443"
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.MaxClients = 100
	c.SessionTTL = 1 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
