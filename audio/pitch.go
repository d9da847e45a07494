package audio

import "math"

// BendRange is the pitch bend range in semitones at full deflection.
const BendRange = 2

// PitchToFreq converts a (possibly fractional) MIDI pitch to Hz, with A4 = 440.
func PitchToFreq(pitch float64) float64 {
	return 440 * math.Pow(2, (pitch-69)/12)
}

// BendPitch applies a pitch bend of units in [-8192, 8191] to base.
func BendPitch(base, units int) float64 {
	return float64(base) + float64(units)/8192*BendRange
}
