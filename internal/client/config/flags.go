package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/ecnotes/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   server address (e.g., "127.0.0.1:8443")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerAddr, "a", config.ServerAddr, "server address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
