package audio

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	PropVolume        = "volume"
	PropCycle         = "cycle"
	PropIdle          = "idle"
	PropBendDuration  = "bend.duration"
	PropBendVolume    = "bend.volume"
	PropChordDuration = "chord.duration"
	PropChordVolume   = "chord.volume"
	PropEnvAttack     = "env.attack"
	PropEnvDecay      = "env.decay"
	PropEnvSustain    = "env.sustain"
	PropEnvRelease    = "env.release"
)

// DefaultMaxOneShots caps the one-shot sounds that may be in flight at once.
const DefaultMaxOneShots = 16

// Engine renders the held notes in Notes as a retriggered sustain: every
// cycle it synthesizes a short tone per held pitch, mixes them and blocks
// until the output has played the result. One-shot sounds (bends, chords,
// gestures) run on their own goroutines next to that loop.
type Engine struct {
	*Props
	out   Output
	notes *Notes

	volume        *setting
	cycle         *setting
	idle          *setting
	bendDuration  *setting
	bendVolume    *setting
	chordDuration *setting
	chordVolume   *setting
	envAttack     *setting
	envDecay      *setting
	envSustain    *setting
	envRelease    *setting

	maxOneShots int
	oneShots    *semaphore.Weighted
	pending     sync.WaitGroup

	// mu orders pending.Add against Close.
	mu      sync.RWMutex
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	loop    sync.WaitGroup
	started bool
}

func NewEngine(out Output, maxOneShots int) *Engine {
	if maxOneShots <= 0 {
		maxOneShots = DefaultMaxOneShots
	}
	props := NewProps()
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		Props:         props,
		out:           out,
		notes:         NewNotes(),
		volume:        props.declare(PropVolume, levelRange, 0.3),
		cycle:         props.declare(PropCycle, durationRange, 0.15),
		idle:          props.declare(PropIdle, levelRange, 0.05),
		bendDuration:  props.declare(PropBendDuration, durationRange, 0.1),
		bendVolume:    props.declare(PropBendVolume, levelRange, 0.2),
		chordDuration: props.declare(PropChordDuration, durationRange, 0.5),
		chordVolume:   props.declare(PropChordVolume, levelRange, 0.2),
		envAttack:     props.declare(PropEnvAttack, envTimeRange, DefaultEnvelope.Attack),
		envDecay:      props.declare(PropEnvDecay, envTimeRange, DefaultEnvelope.Decay),
		envSustain:    props.declare(PropEnvSustain, fractionRange, DefaultEnvelope.Sustain),
		envRelease:    props.declare(PropEnvRelease, envTimeRange, DefaultEnvelope.Release),
		maxOneShots:   maxOneShots,
		oneShots:      semaphore.NewWeighted(int64(maxOneShots)),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Notes returns the registry of held notes.
func (e *Engine) Notes() *Notes { return e.notes }

// Start launches the render loop. Calling it more than once, or after
// Close, does nothing.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	e.loop.Add(1)
	go e.run()
}

func (e *Engine) NoteOn(pitches ...int) bool  { return e.notes.On(pitches...) }
func (e *Engine) NoteOff(pitches ...int) bool { return e.notes.Off(pitches...) }

func (e *Engine) run() {
	defer e.loop.Done()
	for e.ctx.Err() == nil {
		pitches := e.notes.Snapshot()
		if len(pitches) == 0 {
			e.sleep(e.idleInterval())
			continue
		}
		if err := e.render(pitches); err != nil {
			log.Printf("engine: cycle %v: %v", pitches, err)
			// Don't spin on an output that fails straight away.
			e.sleep(e.idleInterval())
		}
	}
}

// render plays one cycle of the sustained notes.
func (e *Engine) render(pitches []int) (err error) {
	defer e.recover("sustain cycle", &err)

	amp := e.volume.load() / float64(len(pitches))
	duration := e.cycle.load()
	env := e.Envelope()

	bufs := make([]Buffer, 0, len(pitches))
	for _, pitch := range pitches {
		buf, err := Tone(PitchToFreq(float64(pitch)), duration, amp, env)
		if err != nil {
			invalidTone(err)
			continue
		}
		bufs = append(bufs, buf)
	}
	frame := Mix(bufs...)
	if len(frame) == 0 {
		return nil
	}
	if err := e.out.Play(e.ctx, frame); err != nil && e.ctx.Err() == nil && !errors.Is(err, ErrStopped) {
		return err
	}
	return nil
}

// Trigger plays pitch once for duration seconds without touching the
// registry. It reports whether the sound was scheduled.
func (e *Engine) Trigger(pitch, velocity int, duration float64) bool {
	if velocity <= 0 {
		return false
	}
	amp := e.volume.load() * float64(velocity) / 127
	return e.spawn("note", func(ctx context.Context) error {
		buf, err := Tone(PitchToFreq(float64(pitch)), duration, amp, e.Envelope())
		if err != nil {
			return err
		}
		return e.out.Play(ctx, buf)
	})
}

// Chord plays pitches together once. A zero duration uses the
// chord.duration property.
func (e *Engine) Chord(pitches []int, velocity int, duration float64) bool {
	if len(pitches) == 0 || velocity <= 0 {
		return false
	}
	if duration <= 0 {
		duration = e.chordDuration.load()
	}
	amp := e.chordVolume.load() * float64(velocity) / 127 / float64(len(pitches))
	pitches = append([]int(nil), pitches...)
	return e.spawn("chord", func(ctx context.Context) error {
		env := e.Envelope()
		bufs := make([]Buffer, 0, len(pitches))
		for _, pitch := range pitches {
			buf, err := Tone(PitchToFreq(float64(pitch)), duration, amp, env)
			if err != nil {
				return err
			}
			bufs = append(bufs, buf)
		}
		return e.out.Play(ctx, Mix(bufs...))
	})
}

// Bend plays base bent by units once, without waiting for it to finish.
func (e *Engine) Bend(base, units int) bool {
	freq := PitchToFreq(BendPitch(base, units))
	duration, amp := e.bendDuration.load(), e.bendVolume.load()
	return e.spawn("bend", func(ctx context.Context) error {
		buf, err := Tone(freq, duration, amp, e.Envelope())
		if err != nil {
			return err
		}
		return e.out.Fire(buf)
	})
}

// Panic releases every held note and silences the output immediately.
func (e *Engine) Panic() error {
	e.notes.Clear()
	return e.out.Stop()
}

// Close stops the render loop, clears the registry and waits for one-shots
// that are still playing. It does not close the output.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true
	e.mu.Unlock()

	e.cancel()
	e.loop.Wait()
	e.notes.Clear()
	e.pending.Wait()
	return nil
}

// Envelope returns the envelope currently configured through the env.*
// properties.
func (e *Engine) Envelope() Envelope {
	return Envelope{
		Attack:  e.envAttack.load(),
		Decay:   e.envDecay.load(),
		Sustain: e.envSustain.load(),
		Release: e.envRelease.load(),
	}
}

// spawn runs f on its own goroutine unless maxOneShots are already in
// flight, in which case the request is dropped.
func (e *Engine) spawn(name string, f func(ctx context.Context) error) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.stopped {
		return false
	}
	if !e.oneShots.TryAcquire(1) {
		log.Printf("engine: dropping %s, %d one-shots in flight", name, e.maxOneShots)
		return false
	}
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		defer e.oneShots.Release(1)
		var err error
		defer func() {
			if err != nil && !errors.Is(err, ErrStopped) {
				log.Printf("engine: %s: %v", name, err)
			}
		}()
		defer e.recover(name, &err)
		err = f(context.Background())
		if errors.Is(err, ErrInvalidTone) {
			invalidTone(err)
			err = nil
		}
	}()
	return true
}

func (e *Engine) recover(what string, err *error) {
	if r := recover(); r != nil {
		if Strict {
			panic(r)
		}
		log.Printf("engine: recovered from panic in %s: %v", what, r)
		*err = nil
	}
}

func (e *Engine) idleInterval() time.Duration {
	return time.Duration(e.idle.load() * float64(time.Second))
}

func (e *Engine) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-e.ctx.Done():
	}
}

// invalidTone handles parameters that should never reach Tone from a valid
// event.
func invalidTone(err error) {
	if Strict {
		panic(err)
	}
	log.Printf("engine: %v", err)
}
