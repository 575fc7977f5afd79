package btle

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved set of runtime parameters, built by
// layering built-in defaults, an optional YAML file, then CLI flags
// (highest precedence) on top of each other.
type Config struct {
	Channel int    `yaml:"channel"`
	Gain    int    `yaml:"gain"`
	Backend string `yaml:"backend"`
	Server  string `yaml:"server"`
	Capture string `yaml:"capture"`
	Replay  string `yaml:"replay"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults, matching the original
// tool's defaults (channel 37, HackRF gain 10).
func DefaultConfig() Config {
	return Config{
		Channel: 37,
		Gain:    10,
		Backend: "hackrf",
		Server:  "127.0.0.1:1234",
	}
}

// LoadConfigFile overlays the YAML file at path onto base. A missing
// file is not an error: base is returned unchanged. A caller that
// requires the file to exist checks for it before calling.
func LoadConfigFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, err
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	return cfg, nil
}
