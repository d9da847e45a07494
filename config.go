package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/vlove/vlove/audio"
	"github.com/vlove/vlove/wire"
	"gopkg.in/yaml.v3"
)

// config is the optional YAML file given with -config. Settings are engine
// properties by name, e.g. "volume" or "env.release".
type config struct {
	Output      string             `yaml:"output"`
	Preset      string             `yaml:"preset"`
	MaxOneShots int                `yaml:"max_one_shots"`
	Settings    map[string]float64 `yaml:"settings"`
	Gestures    wire.Gestures      `yaml:"gestures"`
}

func defaultConfig() *config {
	return &config{
		Output:      "portaudio",
		MaxOneShots: audio.DefaultMaxOneShots,
	}
}

func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for token, shot := range cfg.Gestures {
		if shot.Pitch < 0 || shot.Pitch > wire.MaxPitch || shot.Duration <= 0 {
			return nil, fmt.Errorf("%s: invalid sound for gesture %q: %+v", path, token, shot)
		}
	}
	return cfg, nil
}

// apply loads the preset, then the individual settings on top of it.
func (c *config) apply(d audio.Device) error {
	if c.Preset != "" {
		if err := audio.LoadPreset(c.Preset, d); err != nil {
			return err
		}
	}
	keys := make([]string, 0, len(c.Settings))
	for k := range c.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := d.Set(k, c.Settings[k]); err != nil {
			return err
		}
	}
	return nil
}

func (c *config) gestures() wire.Gestures {
	return wire.DefaultGestures.Merge(c.Gestures)
}
