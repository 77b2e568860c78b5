package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ecnotes/internal/flagx"
)

// JsonConfig is the DTO for reading JSON configuration files.
type JsonConfig struct {
	ServerAddr string `json:"server_addr"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags;
// when neither is set, no JSON file is loaded.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

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

	config.ServerAddr = c.ServerAddr
}
