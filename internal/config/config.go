// Package config loads mincpu settings from flags, MINCPU_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/younsl/mincpu/internal/models"
	"github.com/younsl/mincpu/pkg/aws"
	"github.com/younsl/mincpu/pkg/utils"
)

// Output formats
const (
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config represents the complete mincpu configuration.
type Config struct {
	// Profile is the shared config profile to use. Empty uses the SDK default chain.
	Profile string `yaml:"profile,omitempty"`

	// Static credentials, mostly for LocalStack and CI
	AccessKeyID     string `yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `yaml:"secretAccessKey,omitempty"`
	SessionToken    string `yaml:"sessionToken,omitempty"`

	// DefaultRegion is the home region regions are enumerated from.
	// Empty resolves through AWS_REGION, the shared config and finally IMDS.
	DefaultRegion string `yaml:"defaultRegion,omitempty"`

	// EndpointURL overrides every AWS service endpoint
	EndpointURL string `yaml:"endpointUrl,omitempty"`

	// Regions restricts the scan. Empty scans every enabled region.
	Regions []string `yaml:"regions,omitempty"`

	// NamePolicy is "first-tag" (default) or "tag-key"
	NamePolicy string `yaml:"namePolicy,omitempty"`

	// NameTagKey is the tag read by the tag-key policy. Default: Name
	NameTagKey string `yaml:"nameTagKey,omitempty"`

	// Output is one of text, table, json. Default: text
	Output string `yaml:"output,omitempty"`

	// Concurrency is how many regions are scanned in parallel. Default: 1
	Concurrency int `yaml:"concurrency,omitempty"`

	// Pricing adds on-demand monthly cost estimates to table and json output
	Pricing bool `yaml:"pricing,omitempty"`

	// Timeout bounds the whole run, as a Go duration. Empty or "0" means none.
	Timeout string `yaml:"timeout,omitempty"`

	// LogLevel is one of debug, info, error. Default: info
	LogLevel string `yaml:"logLevel,omitempty"`
}

// flagKeys maps CLI flag names to configuration keys
var flagKeys = map[string]string{
	"profile":        "profile",
	"default-region": "defaultRegion",
	"endpoint-url":   "endpointUrl",
	"regions":        "regions",
	"name-policy":    "namePolicy",
	"name-tag-key":   "nameTagKey",
	"output":         "output",
	"concurrency":    "concurrency",
	"pricing":        "pricing",
	"timeout":        "timeout",
	"log-level":      "logLevel",
}

// envKeys maps configuration keys to their environment variables
var envKeys = map[string]string{
	"profile":         "MINCPU_PROFILE",
	"accessKeyId":     "MINCPU_ACCESS_KEY_ID",
	"secretAccessKey": "MINCPU_SECRET_ACCESS_KEY",
	"sessionToken":    "MINCPU_SESSION_TOKEN",
	"defaultRegion":   "MINCPU_DEFAULT_REGION",
	"endpointUrl":     "MINCPU_ENDPOINT_URL",
	"regions":         "MINCPU_REGIONS",
	"namePolicy":      "MINCPU_NAME_POLICY",
	"nameTagKey":      "MINCPU_NAME_TAG_KEY",
	"output":          "MINCPU_OUTPUT",
	"concurrency":     "MINCPU_CONCURRENCY",
	"pricing":         "MINCPU_PRICING",
	"timeout":         "MINCPU_TIMEOUT",
	"logLevel":        "MINCPU_LOG_LEVEL",
}

// Load builds the configuration.
//
// Precedence (highest to lowest):
//  1. Flags explicitly set on the command line
//  2. Environment variables (MINCPU_* prefix)
//  3. Configuration file values (only when path is not empty)
//  4. Default values
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("namePolicy", string(models.NamePolicyFirstTag))
	v.SetDefault("nameTagKey", utils.DefaultNameTagKey)
	v.SetDefault("output", OutputText)
	v.SetDefault("concurrency", 1)
	v.SetDefault("pricing", false)
	v.SetDefault("logLevel", "info")

	// Viper's automatic mapping doesn't handle camelCase to SCREAMING_SNAKE_CASE well
	v.SetEnvPrefix("MINCPU")
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	switch models.NamePolicy(c.NamePolicy) {
	case models.NamePolicyFirstTag, models.NamePolicyTagKey:
	default:
		return fmt.Errorf("invalid name policy %q, must be one of: %s, %s",
			c.NamePolicy, models.NamePolicyFirstTag, models.NamePolicyTagKey)
	}

	switch c.Output {
	case OutputText, OutputTable, OutputJSON:
	default:
		return fmt.Errorf("invalid output %q, must be one of: text, table, json", c.Output)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, error", c.LogLevel)
	}

	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("accessKeyId and secretAccessKey must be set together")
	}

	return nil
}

// GetTimeout returns the parsed run timeout, 0 meaning no timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		// Should never happen since Validate() checks this
		return 0
	}
	return d
}

// ClientConfig returns the provider settings passed to every AWS client.
func (c *Config) ClientConfig() aws.ClientConfig {
	return aws.ClientConfig{
		Profile:         c.Profile,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
		DefaultRegion:   c.DefaultRegion,
		EndpointURL:     c.EndpointURL,
	}
}
