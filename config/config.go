package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nicopkrauss/talenttracker/shift"
)

// RolePolicy is the role-dependent timecard policy. The minimum-break value
// is a product decision, so it is configuration rather than a constant.
type RolePolicy struct {
	OvertimeThresholdHours float64 `yaml:"overtimeThresholdHours"`
	MinimumBreakMinutes    int     `yaml:"minimumBreakMinutes"`
	HideWhenComplete       bool    `yaml:"hideWhenComplete"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int    `yaml:"maxConns"`
	LogLevel string `yaml:"logLevel"`
}

type AuthConfig struct {
	// Base64Secret is the base64-encoded HMAC signing secret.
	Base64Secret string `yaml:"base64Secret"`
}

type SlackConfig struct {
	Token          string `yaml:"token"`
	AlertChannelID string `yaml:"alertChannelId"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server   ServerConfig          `yaml:"server"`
	Database DatabaseConfig        `yaml:"database"`
	Auth     AuthConfig            `yaml:"auth"`
	Slack    SlackConfig           `yaml:"slack"`
	Log      LogConfig             `yaml:"log"`
	Roles    map[string]RolePolicy `yaml:"roles"`

	// DefaultRole is used when a shift's role has no policy entry.
	DefaultRole string `yaml:"defaultRole"`
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{MaxConns: 10, LogLevel: "warn"},
		Log:      LogConfig{Level: "info", Format: "json"},
		Roles: map[string]RolePolicy{
			"talent_logistics_coordinator": {OvertimeThresholdHours: 10, MinimumBreakMinutes: 30},
			"talent_escort":                {OvertimeThresholdHours: 12, MinimumBreakMinutes: 30, HideWhenComplete: true},
			"supervisor":                   {OvertimeThresholdHours: 10},
		},
		DefaultRole: "talent_escort",
	}
}

// Load reads path (yaml) over the built-in defaults. An empty path loads
// defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if dsn := os.Getenv("DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if secret := os.Getenv("TT_SIGNING_SECRET"); secret != "" {
		cfg.Auth.Base64Secret = secret
	}
	if token := os.Getenv("SLACK_BOT_TOKEN"); token != "" {
		cfg.Slack.Token = token
	}
	return cfg, nil
}

// PolicyFor resolves the shift policy for a role, falling back to the
// default role's policy.
func (c *Config) PolicyFor(role string) shift.Policy {
	rp, ok := c.Roles[role]
	if !ok {
		rp = c.Roles[c.DefaultRole]
	}
	return shift.Policy{
		OvertimeThresholdHours: rp.OvertimeThresholdHours,
		MinimumBreak:           time.Duration(rp.MinimumBreakMinutes) * time.Minute,
		HideWhenComplete:       rp.HideWhenComplete,
	}
}
