package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090/api", "-t", "2s", "-d", "x.db", "-s", "redis", "-r", "r:1", "-l", "debug", "-log-file=", "-m", "127.0.0.1:9100"},
			want: func(c *Config) {
				c.APIBaseURL = "http://127.0.0.1:9090/api"
				c.HTTPTimeout = 2 * time.Second
				c.DBPath = "x.db"
				c.Store = StoreRedis
				c.RedisAddr = "r:1"
				c.LogLevel = "debug"
				c.LogFile = ""
				c.MetricsAddr = "127.0.0.1:9100"
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.yaml", "--verbose", "-a", "http://h/api"},
			want: func(c *Config) { c.APIBaseURL = "http://h/api" },
		},
		{
			name:    "incorrect timeout",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}
