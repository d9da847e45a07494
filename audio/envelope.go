package audio

// Envelope is a four segment amplitude shape. Attack, Decay and Release are
// window lengths in seconds, Sustain is a level in [0, 1].
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

var DefaultEnvelope = Envelope{
	Attack:  0.01,
	Decay:   0.1,
	Sustain: 0.7,
	Release: 0.2,
}

// segments returns the attack, decay and release lengths in samples for a
// buffer of n samples. Each window is clamped to what the windows before it
// left over, so short buffers lose their sustain first, then release.
func (e Envelope) segments(n int) (attack, decay, release int) {
	attack = min(seconds(e.Attack), n)
	decay = min(seconds(e.Decay), n-attack)
	release = min(seconds(e.Release), n-attack-decay)
	return attack, decay, release
}

// apply multiplies buf in place by the envelope. The last sample always
// ends up at zero, the first one too unless there is no attack.
func (e Envelope) apply(buf Buffer) {
	n := len(buf)
	if n == 0 {
		return
	}
	attack, decay, release := e.segments(n)
	releaseAt := n - release

	// A release with nothing before it starts at the sustain level.
	level, from := e.Sustain, 0.0
	for i := range buf {
		switch {
		case i < attack:
			level = ramp(0, 1, i, attack)
		case i < attack+decay:
			level = ramp(1, e.Sustain, i-attack, decay)
		case i < releaseAt:
			level = e.Sustain
		default:
			// Release starts from wherever the previous segment left off.
			if i == releaseAt {
				from = level
			}
			level = ramp(from, 0, i-releaseAt, release)
		}
		buf[i] *= float32(level)
	}
	buf[n-1] = 0
}

// ramp returns the i-th of n evenly spaced values from start to end, both
// ends included.
func ramp(start, end float64, i, n int) float64 {
	if n <= 1 {
		return start
	}
	return start + (end-start)*float64(i)/float64(n-1)
}

func seconds(s float64) int {
	if s <= 0 {
		return 0
	}
	return int(s * SampleRate)
}
