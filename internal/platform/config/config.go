package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries settings for both the server and the terminal client.
// Values come from an optional YAML file, then ATTN_* environment
// variables on top.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	StateDir   string `yaml:"state_dir"`
	ServerURL  string `yaml:"server_url"`
	Timezone   string `yaml:"timezone"`
	AuthToken  string `yaml:"auth_token"`
	LogPath    string `yaml:"log_path"`
}

func defaults() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	stateDir := filepath.Join(home, ".attn")
	return Config{
		ListenAddr: ":8420",
		DBPath:     filepath.Join(stateDir, "attn.db"),
		StateDir:   stateDir,
		ServerURL:  "http://localhost:8420",
	}
}

// Load reads the config file at path when it exists, applies environment
// overrides, and validates the timezone. An empty path means defaults plus
// environment only.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return Config{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to the process
// local zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("ATTN_LISTEN_ADDR", &cfg.ListenAddr)
	set("ATTN_DB_PATH", &cfg.DBPath)
	set("ATTN_STATE_DIR", &cfg.StateDir)
	set("ATTN_SERVER_URL", &cfg.ServerURL)
	set("ATTN_TIMEZONE", &cfg.Timezone)
	set("ATTN_AUTH_TOKEN", &cfg.AuthToken)
	set("ATTN_LOG_PATH", &cfg.LogPath)
}
