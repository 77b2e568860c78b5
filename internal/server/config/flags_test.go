package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "postgres://db", "-r", "127.0.0.1:6379",
			"-m", "42", "-t", "30",
		}, expectPanic: false,
			expected: &Config{
				ListenAddr:  "127.0.0.1:9090",
				DatabaseDSN: "postgres://db",
				RedisAddr:   "127.0.0.1:6379",
				MaxClients:  42,
				SessionTTL:  30 * time.Minute,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
