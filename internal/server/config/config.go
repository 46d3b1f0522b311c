// Package config handles configuration of the development backend,
// including defaults, an optional YAML or JSON file, environment variables
// and command-line flags.
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
	EnvPrefix = "FRIDGEKEEPER_DEV_"
	envConfig = EnvPrefix + "CONFIG"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings of the development backend.
//
// Fields:
//   - Addr: listen address of the REST API.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Dev use only.
//   - TokenTTL: lifetime of issued tokens.
//   - FavoriteMethods: methods the favorite endpoint accepts; others get 405.
//   - BatchEcho: whether the batch endpoint returns the created rows.
//   - Metrics: expose Prometheus metrics on /metrics.
type Config struct {
	Addr            string        `koanf:"addr" validate:"required"`
	SecretKey       string        `koanf:"secret_key" validate:"required"`
	TokenTTL        time.Duration `koanf:"token_ttl" validate:"gt=0"`
	FavoriteMethods []string      `koanf:"favorite_methods" validate:"min=1,dive,oneof=PATCH POST PUT"`
	BatchEcho       bool          `koanf:"batch_echo"`
	Metrics         bool          `koanf:"metrics"`

	LogBackend string `koanf:"log_backend" validate:"oneof=slog zerolog"`
	LogLevel   string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `koanf:"log_format" validate:"oneof=text json"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.FavoriteMethods = []string{"PATCH"}
	c.BatchEcho = true
	c.Metrics = true
	c.LogBackend = "zerolog"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config from defaults, the config file, the
// environment and args, in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	k := koanf.New(".")

	path := flagx.ConfigFileFlag(args)
	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path != "" {
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
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	for i, m := range cfg.FavoriteMethods {
		cfg.FavoriteMethods[i] = strings.ToUpper(strings.TrimSpace(m))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

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
