package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dmitrijs2005/fridgekeeper/internal/flagx"
)

const (
	EnvPrefix = "FRIDGEKEEPER_"
	envConfig = EnvPrefix + "CONFIG"

	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings of the client.
type Config struct {
	APIBaseURL  string        `koanf:"api_url" validate:"required,url"`
	HTTPTimeout time.Duration `koanf:"http_timeout" validate:"gt=0"`

	Store          string `koanf:"store" validate:"oneof=sqlite redis"`
	DBPath         string `koanf:"db_path" validate:"required_if=Store sqlite"`
	RedisAddr      string `koanf:"redis_addr" validate:"required_if=Store redis"`
	RedisNamespace string `koanf:"redis_namespace"`

	LogBackend string `koanf:"log_backend" validate:"oneof=slog zerolog"`
	LogLevel   string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `koanf:"log_format" validate:"oneof=text json"`
	LogFile    string `koanf:"log_file"`

	RetryAttempts uint          `koanf:"retry_attempts" validate:"gte=1,lte=10"`
	RetryDelay    time.Duration `koanf:"retry_delay" validate:"gte=0"`

	// OnlineCheckInterval is how often the backend is pinged; 0 disables it.
	OnlineCheckInterval time.Duration `koanf:"online_check_interval" validate:"gte=0"`
	// MetricsAddr, when set, serves Prometheus metrics on /metrics.
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,hostname_port"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://myfridgebackend.onrender.com/api"
	c.HTTPTimeout = 15 * time.Second
	c.Store = StoreSQLite
	c.DBPath = "fridgekeeper.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisNamespace = "fridgekeeper"
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = "fridgekeeper.log"
	c.RetryAttempts = 3
	c.RetryDelay = 300 * time.Millisecond
	c.OnlineCheckInterval = 30 * time.Second
}

// LoadConfig builds a Config from defaults, the config file, the
// environment and args (usually os.Args[1:]), in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	k := koanf.New(".")

	path := flagx.ConfigFileFlag(args)
	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path != "" {
		// JSON is valid YAML, so one parser serves both.
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			if key == envConfig {
				return "", nil
			}
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	err = k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s failed %q", ErrInvalidConfig, verrs[0].Field(), verrs[0].Tag())
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
