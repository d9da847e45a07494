package audio

import (
	"errors"
	"fmt"
	"math"
)

const (
	SampleRate = 44100
	twoPi      = 2 * math.Pi
)

// Buffer holds mono samples at SampleRate.
type Buffer []float32

var ErrInvalidTone = errors.New("invalid tone parameters")

// Strict makes the engine panic when it produces invalid tone parameters
// instead of logging and skipping them.
var Strict bool

// harmonics is the additive stack every tone is built from.
var harmonics = [...]struct {
	multiple float64
	weight   float64
}{
	{1, 1},
	{2, 0.5},
	{3, 0.25},
}

// Tone renders round(SampleRate*duration) samples of a tone at freq Hz with
// the given peak amplitude, shaped by env. It is a pure function of its
// arguments.
func Tone(freq, duration, amp float64, env Envelope) (Buffer, error) {
	if !(freq > 0) || math.IsInf(freq, 0) || !(duration > 0) || math.IsInf(duration, 0) || !(amp > 0) || amp > 1 {
		return nil, fmt.Errorf("%w: freq=%v duration=%v amp=%v", ErrInvalidTone, freq, duration, amp)
	}
	buf := make(Buffer, int(math.Round(SampleRate*duration)))
	for n := range buf {
		t := float64(n) / SampleRate
		var v float64
		for _, h := range harmonics {
			v += h.weight * math.Sin(twoPi*h.multiple*freq*t)
		}
		buf[n] = float32(amp * v)
	}
	env.apply(buf)
	return buf, nil
}
