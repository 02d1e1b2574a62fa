package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Portal    PortalConfig `yaml:"portal"`
	Selectors Selectors    `yaml:"selectors,omitempty"`
	Cookies   []Cookie     `yaml:"cookies,omitempty"`
	MQTT      MQTTConfig   `yaml:"mqtt,omitempty"`
	Export    ExportConfig `yaml:"export,omitempty"`
}

// PortalConfig holds credentials and timing for the smart meter portal
type PortalConfig struct {
	LoginURL              string `yaml:"login_url,omitempty"`
	Username              string `yaml:"username,omitempty"`
	Password              string `yaml:"password,omitempty"`
	LoginTimeoutSeconds   int    `yaml:"login_timeout_seconds,omitempty"`   // ceiling for the post-login wait
	ElementTimeoutSeconds int    `yaml:"element_timeout_seconds,omitempty"` // ceiling for individual element waits
	OverallTimeoutSeconds int    `yaml:"overall_timeout_seconds,omitempty"` // ceiling for the whole browser session
}

// MQTTConfig holds Home Assistant MQTT broker settings
type MQTTConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Broker    string `yaml:"broker,omitempty"` // e.g. "homeassistant.local"
	Port      int    `yaml:"port,omitempty"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
	BaseTopic string `yaml:"base_topic,omitempty"` // default "homeassistant"
	Retain    bool   `yaml:"retain_messages,omitempty"`
}

// ExportConfig holds xlsx export settings
type ExportConfig struct {
	OutputDir string `yaml:"output_dir,omitempty"` // default: current directory
}

// Cookie represents a browser cookie saved from a manual login
type Cookie struct {
	Name     string  `yaml:"name"`
	Value    string  `yaml:"value"`
	Domain   string  `yaml:"domain"`
	Path     string  `yaml:"path"`
	Expires  float64 `yaml:"expires,omitempty"`
	HTTPOnly bool    `yaml:"httpOnly,omitempty"`
	Secure   bool    `yaml:"secure,omitempty"`
	SameSite string  `yaml:"sameSite,omitempty"`
}

// Load reads the config file and applies environment overrides for
// credentials (USMS_USERNAME / USMS_PASSWORD)
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Missing file is fine, env vars may carry the credentials
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if v := os.Getenv("USMS_USERNAME"); v != "" {
		cfg.Portal.Username = v
	}
	if v := os.Getenv("USMS_PASSWORD"); v != "" {
		cfg.Portal.Password = v
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

const defaultLoginURL = "https://www.usms.com.bn/SmartMeter/resLogin"

// GetLoginURL returns the portal login URL with a default of the USMS
// residential login page
func (c *Config) GetLoginURL() string {
	if c.Portal.LoginURL != "" {
		return c.Portal.LoginURL
	}
	return defaultLoginURL
}

// GetLoginTimeout returns the post-login wait ceiling (default 20s)
func (c *Config) GetLoginTimeout() time.Duration {
	if c.Portal.LoginTimeoutSeconds > 0 {
		return time.Duration(c.Portal.LoginTimeoutSeconds) * time.Second
	}
	return 20 * time.Second
}

// GetElementTimeout returns the per-element wait ceiling (default 10s)
func (c *Config) GetElementTimeout() time.Duration {
	if c.Portal.ElementTimeoutSeconds > 0 {
		return time.Duration(c.Portal.ElementTimeoutSeconds) * time.Second
	}
	return 10 * time.Second
}

// GetOverallTimeout returns the whole-session ceiling (default 3m)
func (c *Config) GetOverallTimeout() time.Duration {
	if c.Portal.OverallTimeoutSeconds > 0 {
		return time.Duration(c.Portal.OverallTimeoutSeconds) * time.Second
	}
	return 3 * time.Minute
}

// GetBaseTopic returns the MQTT base topic with a default of "homeassistant"
func (c *Config) GetBaseTopic() string {
	if c.MQTT.BaseTopic != "" {
		return c.MQTT.BaseTopic
	}
	return "homeassistant"
}

// GetExportDir returns the xlsx output directory (default: current directory)
func (c *Config) GetExportDir() string {
	if c.Export.OutputDir != "" {
		return c.Export.OutputDir
	}
	return "."
}
