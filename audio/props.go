package audio

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"
)

// Props holds the engine settings. Every setting is a number with a fixed
// valid range. Reads are lock free, so the render loop picks up a change
// made from the console on its next cycle. All settings must be declared
// before the engine starts.
type Props struct {
	settings map[string]*setting
}

// span is the closed range a setting accepts.
type span struct {
	min, max float64
}

var (
	envTimeRange  = span{0, 5}
	levelRange    = span{0.001, 1}
	durationRange = span{0.01, 5}
	fractionRange = span{0, 1}
)

type setting struct {
	span
	bits atomic.Uint64
}

func (s *setting) load() float64 { return math.Float64frombits(s.bits.Load()) }

func (s *setting) store(v float64) error {
	if math.IsNaN(v) || v < s.min || v > s.max {
		return fmt.Errorf("%v is not in range %v - %v", v, s.min, s.max)
	}
	s.bits.Store(math.Float64bits(v))
	return nil
}

func NewProps() *Props {
	return &Props{settings: make(map[string]*setting)}
}

// declare adds a setting limited to r and starting at init. An init value
// outside r is a programming error.
func (p *Props) declare(key string, r span, init float64) *setting {
	s := &setting{span: r}
	if err := s.store(init); err != nil {
		panic(fmt.Sprintf("setting %s: %v", key, err))
	}
	p.settings[key] = s
	return s
}

// Set changes a setting. Integers are accepted for convenience.
func (p *Props) Set(key string, value interface{}) error {
	s, ok := p.settings[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	var v float64
	switch n := value.(type) {
	case float64:
		v = n
	case int:
		v = float64(n)
	default:
		return fmt.Errorf("set property %s: not a number: %v", key, value)
	}
	if err := s.store(v); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	s, ok := p.settings[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return s.load(), nil
}

// Range returns the values key accepts.
func (p *Props) Range(key string) (lo, hi float64, ok bool) {
	s, ok := p.settings[key]
	if !ok {
		return 0, 0, false
	}
	return s.min, s.max, true
}

// Keys returns the setting names in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.settings))
	for k := range p.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
