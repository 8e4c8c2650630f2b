// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package daemon

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the daemon's on-disk configuration. Its absence at startup
// is not an error (spec.md §6). The daemon reads SocketPath and
// MaxWorkers; DefaultTransition and MaxOutputs are parsed from the
// file but nothing in the daemon consults them, so requests are not
// filled in from DefaultTransition and the number of tracked outputs
// is not capped.
type Config struct {
	SocketPath string `yaml:"socket_path"`

	DefaultTransition struct {
		Kind     string        `yaml:"kind"`
		Duration time.Duration `yaml:"duration"`
		Step     uint8         `yaml:"step"`
		FPS      uint16        `yaml:"fps"`
	} `yaml:"default_transition"`

	MaxOutputs int `yaml:"max_outputs"`

	// MaxWorkers bounds how many per-output animation workers may run
	// concurrently across the whole daemon (anim.Scheduler).
	MaxWorkers int64 `yaml:"max_workers"`
}

// defaultConfig returns the configuration used when no file is
// present or no override applies.
func defaultConfig() *Config {
	c := &Config{MaxOutputs: 16, MaxWorkers: 8}
	c.DefaultTransition.Kind = "simple"
	c.DefaultTransition.Step = 2
	c.DefaultTransition.FPS = 30
	return c
}

// LoadConfig reads and parses a YAML configuration file at path. A
// missing file yields the default configuration and a nil error;
// any other read or parse failure is returned.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
