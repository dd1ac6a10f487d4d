// Package config loads the storechat configuration from a YAML file and
// STORECHAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides: STORECHAT_<SECTION>_<KEY>,
// e.g. STORECHAT_OPENAI_API_KEY or STORECHAT_HTTP_ADDR.
const EnvPrefix = "STORECHAT_"

// Config is the full runtime configuration.
type Config struct {
	Store    Store    `mapstructure:"store"`
	Keywords Keywords `mapstructure:"keywords"`
	Catalog  Catalog  `mapstructure:"catalog"`
	Gateway  Gateway  `mapstructure:"gateway"`
	OpenAI   OpenAI   `mapstructure:"openai"`
	SendGrid SendGrid `mapstructure:"sendgrid"`
	Redis    Redis    `mapstructure:"redis"`
	HTTP     HTTP     `mapstructure:"http"`
	Log      Log      `mapstructure:"log"`
}

// Store is the shop profile used in menus, the responder prompt and notifications.
type Store struct {
	Name         string   `mapstructure:"name"`
	Contact      string   `mapstructure:"contact"`
	AttendantID  string   `mapstructure:"attendant_id"`
	Footer       string   `mapstructure:"footer"`
	Address      string   `mapstructure:"address"`
	Hours        string   `mapstructure:"hours"`
	About        string   `mapstructure:"about"`
	Promotions   []string `mapstructure:"promotions"`
	CustomOrders string   `mapstructure:"custom_orders"`
}

// Catalog locates the product file.
type Catalog struct {
	Path     string        `mapstructure:"path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Watch    bool          `mapstructure:"watch"`
}

// Gateway is the HTTP messaging gateway transport.
type Gateway struct {
	BaseURL      string        `mapstructure:"base_url"`
	Token        string        `mapstructure:"token"`
	Secret       string        `mapstructure:"secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ImageTimeout time.Duration `mapstructure:"image_timeout"`
}

// OpenAI configures the natural-language responder. An empty APIKey disables it.
// Temperature is nil when unset, so an explicit 0 is kept.
type OpenAI struct {
	APIKey      string   `mapstructure:"api_key"`
	BaseURL     string   `mapstructure:"base_url"`
	Model       string   `mapstructure:"model"`
	MaxTokens   int      `mapstructure:"max_tokens"`
	Temperature *float64 `mapstructure:"temperature"`
	MaxRetries  int      `mapstructure:"max_retries"`
	HistorySize int      `mapstructure:"history_size"`
}

// SendGrid configures the e-mail notifier. An empty APIKey disables it.
type SendGrid struct {
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
}

// Redis configures the distributed turn lock. An empty Addr disables it.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// HTTP configures the webhook/health/metrics server.
type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads path (optional: an empty path or a missing file yields defaults),
// applies environment overrides from environ (os.Environ() format) and fills defaults.
func Load(path string, environ []string) (Config, error) {
	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			if raw == nil {
				raw = map[string]any{}
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnv(raw, environ)

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv writes STORECHAT_<SECTION>_<KEY>=value into raw[section][key].
func applyEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || key == "" {
			continue
		}
		sub, _ := raw[section].(map[string]any)
		if sub == nil {
			sub = map[string]any{}
			raw[section] = sub
		}
		sub[key] = value
	}
}

func (c *Config) applyDefaults() {
	if c.Store.Name == "" {
		c.Store.Name = "Our Store"
	}
	if c.Store.Footer == "" {
		c.Store.Footer = "Type *menu* to return to the start"
	}
	c.Keywords.applyDefaults()
	if c.Catalog.Path == "" {
		c.Catalog.Path = "catalog.yaml"
	}
	if c.Catalog.CacheTTL <= 0 {
		c.Catalog.CacheTTL = 30 * time.Second
	}
	if c.Gateway.Timeout <= 0 {
		c.Gateway.Timeout = 10 * time.Second
	}
	if c.Gateway.ImageTimeout <= 0 {
		c.Gateway.ImageTimeout = 15 * time.Second
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.MaxTokens <= 0 {
		c.OpenAI.MaxTokens = 500
	}
	if c.OpenAI.Temperature == nil {
		t := 0.7
		c.OpenAI.Temperature = &t
	}
	if c.OpenAI.MaxRetries <= 0 {
		c.OpenAI.MaxRetries = 3
	}
	if c.OpenAI.HistorySize <= 0 {
		c.OpenAI.HistorySize = 20
	}
	if c.Redis.LockTTL <= 0 {
		c.Redis.LockTTL = 30 * time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Default returns the configuration used when no file or environment is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}
