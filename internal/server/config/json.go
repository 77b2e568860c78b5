package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/ecnotes/internal/flagx"
	"github.com/dmitrijs2005/ecnotes/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	ListenAddr  string         `json:"listen_addr"`
	DatabaseDSN string         `json:"database_dsn"`
	RedisAddr   string         `json:"redis_addr"`
	MaxClients  int            `json:"max_clients"`
	SessionTTL  timex.Duration `json:"session_ttl"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics. The caller is expected to
// merge these values with defaults and command-line flags as part of the
// full configuration process.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.ListenAddr = c.ListenAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.MaxClients = c.MaxClients
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
}
