// Package config handles pipeline configuration loading.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClientIdentity is one upstream API client identity. Different identities
// expose different or more-complete track lists, which is why the pipeline
// carries two of them.
type ClientIdentity struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Clients holds the two API client identities tried in order.
type Clients struct {
	Primary   ClientIdentity `yaml:"primary"`
	Secondary ClientIdentity `yaml:"secondary"`
}

// Community configures the community-maintained subtitle repository used as a
// fallback source. An empty BaseURL disables it.
type Community struct {
	BaseURL string `yaml:"base_url"`
}

// Config holds the fully processed application configuration.
type Config struct {
	Listen          string    `yaml:"listen"`
	LogLevel        string    `yaml:"log_level"`
	DefaultLanguage string    `yaml:"default_language"`
	UserAgent       string    `yaml:"user_agent"`
	WatchURL        string    `yaml:"watch_url"`
	PlayerURL       string    `yaml:"player_url"`
	Clients         Clients   `yaml:"clients"`
	Community       Community `yaml:"community"`
}

// Default returns the built-in configuration. The daemon runs without a
// config file; a file only overrides these values.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		LogLevel:        "info",
		DefaultLanguage: "en",
		UserAgent:       "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
		WatchURL:        "https://www.youtube.com/watch",
		PlayerURL:       "https://www.youtube.com/youtubei/v1/player",
		Clients: Clients{
			Primary:   ClientIdentity{Name: "WEB", Version: "2.20210721.00.00"},
			Secondary: ClientIdentity{Name: "ANDROID", Version: "19.01.33"},
		},
	}
}

// Load reads and parses the configuration file at the given path, applied on
// top of the defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if cfg.DefaultLanguage == "" {
		return nil, fmt.Errorf("default_language must not be empty")
	}
	if cfg.WatchURL == "" || cfg.PlayerURL == "" {
		return nil, fmt.Errorf("watch_url and player_url must not be empty")
	}
	return cfg, nil
}
