package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/fridgekeeper/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Only flags defined here
// are looked at; everything else in args is ignored.
//
//	-a string      backend base URL
//	-t duration    HTTP timeout
//	-d string      SQLite database path
//	-s string      local store backend (sqlite|redis)
//	-r string      redis address
//	-l string      log level
//	-log-file str  log file ("" logs to stderr)
//	-m string      metrics listen address, e.g. 127.0.0.1:9100
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("fridgekeeper", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	fs.DurationVar(&cfg.HTTPTimeout, "t", cfg.HTTPTimeout, "HTTP timeout")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Store, "s", cfg.Store, "local store backend (sqlite|redis)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file, empty for stderr")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
