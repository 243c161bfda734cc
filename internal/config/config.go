// Package config loads the tiered plumb configuration: built-in defaults,
// then the machine config, then the project config, each overriding the
// last. Check thresholds are deliberately absent; they are compile-time
// constants of the engine.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chris-regnier/plumb/internal/astcheck"
	"github.com/chris-regnier/plumb/internal/rules"
)

// RuleSetting adjusts one rule. Enabled is a pointer so an absent key keeps
// the rule's default enablement.
type RuleSetting struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Severity string `yaml:"severity,omitempty"`
}

type OutputConfig struct {
	// Format is one of json, sarif, markdown, pretty. Empty means: decide
	// by whether stdout is a TTY.
	Format string `yaml:"format,omitempty"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name,omitempty"`
	Endpoint    string `yaml:"endpoint,omitempty"`
	// Protocol is grpc or http.
	Protocol string `yaml:"protocol,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

type Config struct {
	Output    OutputConfig           `yaml:"output"`
	Rules     map[string]RuleSetting `yaml:"rules"`
	Telemetry TelemetryConfig        `yaml:"telemetry"`
}

// SystemDefaults returns the built-in configuration.
func SystemDefaults() *Config {
	return &Config{
		Rules: map[string]RuleSetting{},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "plumb",
			Protocol:    "grpc",
		},
	}
}

// Load reads one config file. A missing file yields a nil config and no
// error, so optional tiers cost nothing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadTiered merges the built-in defaults with each existing config file,
// in order of increasing precedence.
func LoadTiered(paths ...string) (*Config, error) {
	configs := []*Config{SystemDefaults()}
	for _, p := range paths {
		cfg, err := Load(p)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return MergeConfigs(configs...), nil
}

// MergeConfigs merges configs in order of increasing precedence. Non-zero
// fields override; rule settings merge per field.
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{Rules: map[string]RuleSetting{}}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Output.Format != "" {
			result.Output.Format = cfg.Output.Format
		}
		if cfg.Telemetry.ServiceName != "" {
			result.Telemetry.ServiceName = cfg.Telemetry.ServiceName
		}
		if cfg.Telemetry.Endpoint != "" {
			result.Telemetry.Endpoint = cfg.Telemetry.Endpoint
		}
		if cfg.Telemetry.Protocol != "" {
			result.Telemetry.Protocol = cfg.Telemetry.Protocol
		}
		if cfg.Telemetry.Enabled {
			result.Telemetry.Enabled = true
		}
		if cfg.Telemetry.Insecure {
			result.Telemetry.Insecure = true
		}

		for id, setting := range cfg.Rules {
			existing := result.Rules[id]
			if setting.Enabled != nil {
				existing.Enabled = setting.Enabled
			}
			if setting.Severity != "" {
				existing.Severity = setting.Severity
			}
			result.Rules[id] = existing
		}
	}
	return result
}

// Validate rejects unknown rule IDs, severities, and output formats.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "", "json", "sarif", "markdown", "pretty":
	default:
		return fmt.Errorf("output.format must be json, sarif, markdown, or pretty, got: %s", c.Output.Format)
	}

	for id, setting := range c.Rules {
		if _, ok := rules.Get(astcheck.RuleID(id)); !ok {
			return fmt.Errorf("unknown rule ID %q", id)
		}
		switch rules.Severity(setting.Severity) {
		case "", rules.SeverityNote, rules.SeverityWarning, rules.SeverityError:
		default:
			return fmt.Errorf("rule %q: severity must be note, warning, or error, got: %s", id, setting.Severity)
		}
	}

	switch c.Telemetry.Protocol {
	case "", "grpc", "http":
	default:
		return fmt.Errorf("telemetry.protocol must be grpc or http, got: %s", c.Telemetry.Protocol)
	}
	return nil
}

// AnalyzerOverrides converts the rule settings into the maps the analyzer
// consumes.
func (c *Config) AnalyzerOverrides() (disabled map[astcheck.RuleID]bool, severity map[astcheck.RuleID]rules.Severity) {
	disabled = make(map[astcheck.RuleID]bool)
	severity = make(map[astcheck.RuleID]rules.Severity)
	for id, setting := range c.Rules {
		if setting.Enabled != nil {
			disabled[astcheck.RuleID(id)] = !*setting.Enabled
		}
		if setting.Severity != "" {
			severity[astcheck.RuleID(id)] = rules.Severity(setting.Severity)
		}
	}
	return disabled, severity
}
