// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the notes CLI.
type Config struct {
	// ServerAddr is the address of the notes server.
	ServerAddr string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:8443"
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
