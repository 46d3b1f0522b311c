package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   listen address (e.g. ":8080")
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-f string   comma-separated favorite methods (e.g. "PATCH,PUT")
//	-b          echo created rows from the batch endpoint; use -b=false to disable
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("devbackend", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	ttl := fs.Int("t", int(cfg.TokenTTL.Minutes()), "token validity (in minutes)")
	methods := fs.String("f", strings.Join(cfg.FavoriteMethods, ","), "favorite endpoint methods")
	fs.BoolVar(&cfg.BatchEcho, "b", cfg.BatchEcho, "echo created rows from the batch endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// only explicit flags replace values that may be finer grained
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.TokenTTL = time.Duration(*ttl) * time.Minute
		case "f":
			cfg.FavoriteMethods = strings.Split(*methods, ",")
		}
	})
	return nil
}
