package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	"piano": preset{
		PropVolume:     0.3,
		PropCycle:      0.15,
		PropEnvAttack:  DefaultEnvelope.Attack,
		PropEnvDecay:   DefaultEnvelope.Decay,
		PropEnvSustain: DefaultEnvelope.Sustain,
		PropEnvRelease: DefaultEnvelope.Release,
	},
	"pluck": preset{
		PropVolume:     0.35,
		PropCycle:      0.12,
		PropEnvAttack:  0.002,
		PropEnvDecay:   0.05,
		PropEnvSustain: 0.3,
		PropEnvRelease: 0.08,
	},
	"organ": preset{
		PropVolume:     0.25,
		PropCycle:      0.2,
		PropEnvAttack:  0.02,
		PropEnvDecay:   0.01,
		PropEnvSustain: 1.0,
		PropEnvRelease: 0.03,
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Presets returns the names of all presets.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
