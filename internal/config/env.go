package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are process-level options read from the environment. Command
// line flags take precedence.
type Settings struct {
	LogLevel     string `env:"MORTGO_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"MORTGO_LOG_FORMAT" envDefault:"text"`
	OutputFormat string `env:"MORTGO_OUTPUT_FORMAT" envDefault:"console"`
}

// LoadSettings reads Settings from the process environment
func LoadSettings() (Settings, error) {
	return loadSettings(env.Options{})
}

func loadSettings(opts env.Options) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return Settings{}, fmt.Errorf("unsupported log format %q", s.LogFormat)
	}
	return s, nil
}
