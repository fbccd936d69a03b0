package main

import (
	"fmt"

	"github.com/kbukum/voicenote/config"
	"github.com/kbukum/voicenote/observability"
	"github.com/kbukum/voicenote/server"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/validation"
)

const serviceName = "voicenote"

// AppConfig is the full voicenote configuration file.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// Vault is the document root notes and recordings are written under.
	Vault     string               `yaml:"vault" mapstructure:"vault"`
	Whisper   settings.Settings    `yaml:"whisper" mapstructure:"whisper"`
	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// newAppConfig returns a config seeded with defaults, so keys missing from
// the file keep their default values after unmarshalling.
func newAppConfig() *AppConfig {
	return &AppConfig{
		Whisper:   settings.Default(),
		Telemetry: observability.Config{SampleRate: 1},
	}
}

// ApplyDefaults fills unset fields. Whisper debug also raises the log level.
func (c *AppConfig) ApplyDefaults() {
	if c.Whisper.Debug {
		c.Debug = true
	}
	c.Whisper.Debug = c.Debug
	c.ServiceConfig.ApplyDefaults()
	c.Whisper.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Vault == "" {
		c.Vault = "."
	}
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Whisper.Validate(); err != nil {
		return fmt.Errorf("whisper: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validation.ValidateStruct(c.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if appErr := validation.New().Required("vault", c.Vault).Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// loadConfig reads config.yml and the environment (VOICENOTE_*), applies
// defaults and validates. configFile may be empty to search the standard
// locations.
func loadConfig(configFile string) (*AppConfig, error) {
	cfg := newAppConfig()
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}
