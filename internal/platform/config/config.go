// Package config loads service configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. VEHICLE_ADMIN_API_BASE_URL.
const EnvPrefix = "VEHICLE_ADMIN"

type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	API       APIConfig       `yaml:"api" envconfig:"API"`
	Reconcile ReconcileConfig `yaml:"reconcile" envconfig:"RECONCILE"`
	Guards    GuardsConfig    `yaml:"guards" envconfig:"GUARDS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOG"`
}

type ServerConfig struct {
	Address string `yaml:"address" split_words:"true"`
}

// APIConfig points at the dealership REST API.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" split_words:"true"`
	Token        string        `yaml:"token" split_words:"true"`
	Timeout      time.Duration `yaml:"timeout" split_words:"true"`
	RetryMax     int           `yaml:"retry_max" split_words:"true"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min" split_words:"true"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max" split_words:"true"`
}

type ReconcileConfig struct {
	DeniedKeys []string `yaml:"denied_keys" split_words:"true"`
}

// GuardsConfig selects the guard pack: either a single file, or a
// versioned pack named <version>_guards.{json,yaml} inside Dir.
type GuardsConfig struct {
	File    string `yaml:"file" split_words:"true"`
	Dir     string `yaml:"dir" split_words:"true"`
	Version string `yaml:"version" split_words:"true"`
	Watch   bool   `yaml:"watch" split_words:"true"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Pretty bool   `yaml:"pretty" split_words:"true"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		API: APIConfig{
			BaseURL:      "http://localhost:3000/api",
			Timeout:      10 * time.Second,
			RetryMax:     2,
			RetryWaitMin: 200 * time.Millisecond,
			RetryWaitMax: 2 * time.Second,
		},
		Reconcile: ReconcileConfig{DeniedKeys: []string{"__v"}},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from path (optional), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an absolute URL", domain.ErrConfigInvalid, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", domain.ErrConfigInvalid)
	}
	if c.API.RetryMax < 0 {
		return fmt.Errorf("%w: api.retry_max must not be negative", domain.ErrConfigInvalid)
	}
	if c.API.RetryWaitMax < c.API.RetryWaitMin {
		return fmt.Errorf("%w: api.retry_wait_max is below api.retry_wait_min", domain.ErrConfigInvalid)
	}
	if c.Guards.Dir != "" && c.Guards.Version == "" {
		return fmt.Errorf("%w: guards.dir needs guards.version", domain.ErrConfigInvalid)
	}
	if c.Guards.Watch && c.Guards.File == "" {
		return fmt.Errorf("%w: guards.watch needs guards.file", domain.ErrConfigInvalid)
	}
	return nil
}
