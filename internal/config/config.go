// Package config loads application settings from a TOML file and
// MCQQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MCQQUIZ_"

const (
	DefaultModulesURL = "https://gist.githubusercontent.com/dr-samrat/ee986f16da9d8303c1acfd364ece22c5/raw"
	DefaultServerAddr = "127.0.0.1:8089"
)

// Config is the full application configuration.
type Config struct {
	DBPath  string        `toml:"db_path" env:"DB"`
	Source  SourceConfig  `toml:"source" envPrefix:"SOURCE_"`
	Session SessionConfig `toml:"session" envPrefix:"SESSION_"`
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	LLM     LLMConfig     `toml:"llm" envPrefix:"LLM_"`
	Server  ServerConfig  `toml:"server" envPrefix:"SERVER_"`
}

// SourceConfig controls where questions come from.
type SourceConfig struct {
	// ModulesURL serves the module list.
	ModulesURL string `toml:"modules_url" env:"MODULES_URL"`

	// QuestionsURL, when set, skips the module list and loads this single
	// question set.
	QuestionsURL string `toml:"questions_url" env:"QUESTIONS_URL"`

	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`

	// Cache keeps the last good copy of every fetch in the database and
	// serves it when the network is unavailable.
	Cache bool `toml:"cache" env:"CACHE"`
}

// SessionConfig tunes the quiz session.
type SessionConfig struct {
	AdvanceDelay int           `toml:"advance_delay" env:"ADVANCE_DELAY"`
	CloseDelay   time.Duration `toml:"close_delay" env:"CLOSE_DELAY"`
	Sound        bool          `toml:"sound" env:"SOUND"`
	AutoStart    bool          `toml:"restart_autostart" env:"RESTART_AUTOSTART"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `toml:"level" env:"LEVEL"`
	File       string `toml:"file" env:"FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" env:"MAX_BACKUPS"`
	Disabled   bool   `toml:"disabled" env:"DISABLED"`
}

// LLMConfig selects the provider used to generate question modules.
// API keys are read by the llm package from the environment only.
type LLMConfig struct {
	Provider  string `toml:"provider" env:"PROVIDER"`
	Model     string `toml:"model" env:"MODEL"`
	Questions int    `toml:"questions" env:"QUESTIONS"`
}

// ServerConfig configures the pack server.
type ServerConfig struct {
	Addr string `toml:"addr" env:"ADDR"`
	Dir  string `toml:"dir" env:"DIR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			ModulesURL: DefaultModulesURL,
			Timeout:    15 * time.Second,
			Cache:      true,
		},
		Session: SessionConfig{
			AdvanceDelay: 2,
			CloseDelay:   2500 * time.Millisecond,
			Sound:        true,
		},
		Log: LogConfig{
			Level:      "info",
			File:       DefaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		LLM: LLMConfig{
			Questions: 10,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
			Dir:  ".",
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Source.ModulesURL == "" && c.Source.QuestionsURL == "" {
		return errors.New("config: source.modules_url or source.questions_url is required")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("config: source.timeout must be positive, got %s", c.Source.Timeout)
	}
	if c.Session.AdvanceDelay < 1 {
		return fmt.Errorf("config: session.advance_delay must be at least 1, got %d", c.Session.AdvanceDelay)
	}
	if c.Session.CloseDelay < 0 {
		return fmt.Errorf("config: session.close_delay must not be negative, got %s", c.Session.CloseDelay)
	}
	if c.LLM.Questions < 1 || c.LLM.Questions > 50 {
		return fmt.Errorf("config: llm.questions must be between 1 and 50, got %d", c.LLM.Questions)
	}
	return nil
}
