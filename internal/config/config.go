// Package config loads reconciler settings from defaults, an optional YAML file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"receipt-reconciliation/internal/engine"
)

// EnvPrefix prefixes every environment override, e.g. RECONCILER_SERVER_ADDR.
const EnvPrefix = "RECONCILER"

type StoreConfig struct {
	Root string `mapstructure:"root" validate:"required"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}

// Config is the full application configuration.
type Config struct {
	Engine engine.Config `mapstructure:"engine"`
	Store  StoreConfig   `mapstructure:"store"`
	Server ServerConfig  `mapstructure:"server"`
	Log    LogConfig     `mapstructure:"log"`
	Batch  BatchConfig   `mapstructure:"batch"`
}

// Load reads the configuration. An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and the engine's cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("store.root", "data")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("batch.concurrency", 4)

	// Engine defaults are registered leaf by leaf so env overrides and partial
	// YAML files merge with them key by key.
	raw, err := json.Marshal(engine.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to encode engine defaults: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("failed to decode engine defaults: %w", err)
	}
	setLeafDefaults(v, "engine", tree)
	return nil
}

func setLeafDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, val := range tree {
		full := prefix + "." + key
		if sub, ok := val.(map[string]any); ok {
			setLeafDefaults(v, full, sub)
			continue
		}
		v.SetDefault(full, val)
	}
}
