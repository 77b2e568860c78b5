package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/ecnotes/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   TCP bind address (e.g., ":8443")
//	-d string   PostgreSQL DSN; empty runs on the in-memory store
//	-r string   redis address for sessions (e.g., "127.0.0.1:6379")
//	-m int      maximum simultaneous clients
//	-t int      session validity, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The duration
// flag is accepted as an integer in minutes and then converted to a
// time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-m", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for the session store")
	fs.IntVar(&config.MaxClients, "m", config.MaxClients, "maximum simultaneous clients")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session_validity_duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
