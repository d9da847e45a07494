package audio

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// recorder is an Output that keeps everything it is asked to play.
type recorder struct {
	mu     sync.Mutex
	played []Buffer
	fired  []Buffer
	stops  int
	err    error
	hold   chan struct{} // when set, Play blocks until it is closed
}

func (r *recorder) Play(ctx context.Context, buf Buffer) error {
	r.mu.Lock()
	r.played = append(r.played, buf)
	err, hold := r.err, r.hold
	r.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (r *recorder) Fire(buf Buffer) error {
	r.mu.Lock()
	r.fired = append(r.fired, buf)
	r.mu.Unlock()
	return nil
}

func (r *recorder) Stop() error {
	r.mu.Lock()
	r.stops++
	r.mu.Unlock()
	return nil
}

func (r *recorder) counts() (played, fired int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.played), len(r.fired)
}

// captureLog sends log output to the returned buffer until the test ends.
// Only read it once every goroutine that may log has finished.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEngineRendersHeldNotes(t *testing.T) {
	out := &recorder{}
	engine := NewEngine(out, 0)
	engine.Start()
	defer engine.Close()

	engine.NoteOn(60, 64, 67)
	waitFor(t, "a cycle", func() bool {
		played, _ := out.counts()
		return played >= 2
	})

	out.mu.Lock()
	frame := out.played[0]
	out.mu.Unlock()
	if want, got := int(math.Round(SampleRate*0.15)), len(frame); want != got {
		t.Errorf("want frame of %v samples, got %v", want, got)
	}
	for i, sample := range frame {
		// three voices at 0.3/3 each, harmonics sum to at most 1.75
		if math.Abs(float64(sample)) > 0.3*1.75+1e-6 {
			t.Fatalf("sample %d too loud: %v", i, sample)
		}
	}
}

func TestEngineIdle(t *testing.T) {
	out := &recorder{}
	engine := NewEngine(out, 0)
	engine.Start()
	time.Sleep(100 * time.Millisecond)
	engine.Close()
	if played, fired := out.counts(); played != 0 || fired != 0 {
		t.Errorf("idle engine played %d frames and fired %d", played, fired)
	}
}

func TestEngineSurvivesOutputErrors(t *testing.T) {
	out := &recorder{err: errors.New("device unplugged")}
	engine := NewEngine(out, 0)
	if err := engine.Set(PropIdle, 0.001); err != nil {
		t.Fatal(err)
	}
	engine.Start()
	defer engine.Close()

	engine.NoteOn(69)
	waitFor(t, "cycles after a failure", func() bool {
		played, _ := out.counts()
		return played >= 3
	})
}

func TestEngineNoteOff(t *testing.T) {
	out := &recorder{}
	engine := NewEngine(out, 0)
	engine.Start()
	defer engine.Close()

	engine.NoteOn(72)
	waitFor(t, "a cycle", func() bool {
		played, _ := out.counts()
		return played >= 1
	})
	engine.NoteOff(72)
	// let a cycle that was already in flight finish
	time.Sleep(200 * time.Millisecond)
	before, _ := out.counts()
	time.Sleep(100 * time.Millisecond)
	if after, _ := out.counts(); after != before {
		t.Errorf("engine kept rendering after note off: %d -> %d frames", before, after)
	}
}

func TestEngineClose(t *testing.T) {
	out := &recorder{hold: make(chan struct{})}
	engine := NewEngine(out, 0)
	engine.Start()
	engine.NoteOn(60)
	waitFor(t, "a blocked cycle", func() bool {
		played, _ := out.counts()
		return played >= 1
	})

	done := make(chan struct{})
	go func() {
		engine.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("close did not interrupt the blocked cycle")
	}
	if got := engine.Notes().Snapshot(); len(got) != 0 {
		t.Errorf("close should clear held notes, got %v", got)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if engine.Trigger(60, 100, 0.1) {
		t.Error("one-shot scheduled after close")
	}
}

func TestEngineOneShotCap(t *testing.T) {
	hold := make(chan struct{})
	out := &recorder{hold: hold}
	engine := NewEngine(out, 2)

	if !engine.Trigger(60, 100, 0.1) || !engine.Chord([]int{60, 64}, 100, 0) {
		t.Fatal("one-shots under the cap should be scheduled")
	}
	waitFor(t, "one-shots to start playing", func() bool {
		played, _ := out.counts()
		return played == 2
	})
	if engine.Trigger(62, 100, 0.1) {
		t.Error("one-shot over the cap should be dropped")
	}
	close(hold)
	waitFor(t, "a free slot", func() bool {
		return engine.Trigger(62, 100, 0.1)
	})
	engine.Close()
}

func TestEngineOneShots(t *testing.T) {
	out := &recorder{}
	engine := NewEngine(out, 0)

	engine.Bend(60, 0)
	engine.Chord([]int{60, 64, 67}, 127, 0.25)
	engine.Close()

	played, fired := out.counts()
	if want, got := 1, fired; want != got {
		t.Fatalf("want %v fired buffer, got %v", want, got)
	}
	if want, got := int(math.Round(SampleRate*0.1)), len(out.fired[0]); want != got {
		t.Errorf("bend: want %v samples, got %v", want, got)
	}
	if want, got := 1, played; want != got {
		t.Fatalf("want %v played buffer, got %v", want, got)
	}
	if want, got := int(math.Round(SampleRate*0.25)), len(out.played[0]); want != got {
		t.Errorf("chord: want %v samples, got %v", want, got)
	}
	if got := engine.Notes().Snapshot(); len(got) != 0 {
		t.Errorf("one-shots must not touch the registry, got %v", got)
	}
	if engine.Trigger(60, 0, 0.1) {
		t.Error("zero velocity trigger should not be scheduled")
	}
}

func TestEnginePanic(t *testing.T) {
	out := &recorder{}
	engine := NewEngine(out, 0)
	engine.NoteOn(60, 62)
	if err := engine.Panic(); err != nil {
		t.Fatal(err)
	}
	if got := engine.Notes().Snapshot(); len(got) != 0 {
		t.Errorf("panic should release all notes, got %v", got)
	}
	if want, got := 1, out.stops; want != got {
		t.Errorf("want %d stop, got %d", want, got)
	}
}

type panickyOutput struct{ recorder }

func (p *panickyOutput) Play(ctx context.Context, buf Buffer) error {
	p.recorder.Play(ctx, buf)
	panic("driver bug")
}

func TestEngineRecoversFromPanics(t *testing.T) {
	out := &panickyOutput{}
	engine := NewEngine(out, 0)
	engine.Start()
	defer engine.Close()

	engine.NoteOn(60)
	engine.Trigger(64, 100, 0.05)
	waitFor(t, "cycles after a panic", func() bool {
		played, _ := out.counts()
		return played >= 3
	})
}

func TestEngineSkipsInvalidTones(t *testing.T) {
	logged := captureLog(t)
	out := &recorder{}
	engine := NewEngine(out, 0)
	engine.Start()

	engine.NoteOn(60)
	if !engine.Trigger(64, 100, 0) {
		t.Fatal("trigger should be scheduled")
	}
	waitFor(t, "cycles after an invalid tone", func() bool {
		played, _ := out.counts()
		return played >= 3
	})
	engine.Close()

	cycle := int(math.Round(SampleRate * 0.15))
	for i, buf := range out.played {
		if want, got := cycle, len(buf); want != got {
			t.Errorf("buffer %d: want a %d sample cycle, got %d samples", i, want, got)
		}
	}
	if got := logged.String(); !strings.Contains(got, "engine: "+ErrInvalidTone.Error()) {
		t.Errorf("invalid tone not logged: %q", got)
	}
}

func TestStrictInvalidTone(t *testing.T) {
	defer func(strict bool) { Strict = strict }(Strict)
	_, err := Tone(440, 0, 0.5, DefaultEnvelope)
	if !errors.Is(err, ErrInvalidTone) {
		t.Fatalf("want ErrInvalidTone, got %v", err)
	}

	Strict = true
	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, ErrInvalidTone) {
			t.Errorf("want a panic with ErrInvalidTone, got %v", r)
		}
	}()
	invalidTone(err)
}

func TestStrictDoesNotRecover(t *testing.T) {
	defer func(strict bool) { Strict = strict }(Strict)
	Strict = true
	engine := NewEngine(&panickyOutput{}, 0)
	defer func() {
		if r := recover(); r != "driver bug" {
			t.Errorf("want the output panic to escape, got %v", r)
		}
	}()
	engine.render([]int{60})
}
