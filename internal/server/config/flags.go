package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/lmwansa/studentportal/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      session token validity, minutes
//	-o string   allowed origins, comma separated
//	-w int      rate limit window, seconds
//	-n int      rate limit maximum per window
//	-m string   gin mode (debug, release, test)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-o", "-w", "-n", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TokenSecret, "s", config.TokenSecret, "token signing secret")
	fs.StringVar(&config.GinMode, "m", config.GinMode, "gin mode")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")
	window := fs.Int("w", int(config.RateLimitWindow.Seconds()), "rate limit window (in seconds)")
	fs.IntVar(&config.RateLimitMax, "n", config.RateLimitMax, "rate limit max requests per window")

	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed origins (comma separated)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
	config.RateLimitWindow = time.Duration(*window) * time.Second
	config.AllowedOrigins = splitOrigins(*origins)
}
