package main

import (
	"fmt"
	"io"
	"log"

	"github.com/vlove/vlove/audio"
	"github.com/vlove/vlove/wire"
)

// dispatcher routes decoded events to the engine and the display. It never
// waits for audio.
type dispatcher struct {
	engine   *audio.Engine
	gestures wire.Gestures
	display  io.Writer
}

// handleLine decodes a protocol line and handles it. Malformed lines are
// logged and dropped.
func (d *dispatcher) handleLine(line string) {
	ev, err := wire.Parse(line)
	if err != nil {
		log.Printf("wire: dropping line: %v", err)
		return
	}
	d.handle(ev)
}

func (d *dispatcher) handle(ev wire.Event) {
	switch ev := ev.(type) {
	case wire.NoteOn:
		fmt.Fprintf(d.display, "%s Note ON: %d (vel=%d)\n", pianoLabel, ev.Pitch, ev.Velocity)
		if !d.engine.NoteOn(ev.Pitch) {
			log.Printf("engine: note %d already held", ev.Pitch)
		}
	case wire.NoteOff:
		fmt.Fprintf(d.display, "%s Note OFF: %d\n", pianoLabel, ev.Pitch)
		d.engine.NoteOff(ev.Pitch)
	case wire.ChordOn:
		fmt.Fprintf(d.display, "%s Chord ON: %v\n", pianoLabel, ev.Pitches)
		d.engine.NoteOn(ev.Pitches...)
	case wire.ChordOff:
		fmt.Fprintf(d.display, "%s Chord OFF: %v\n", pianoLabel, ev.Pitches)
		d.engine.NoteOff(ev.Pitches...)
	case wire.PitchBend:
		fmt.Fprintf(d.display, "%s Pitch Bend: %d\n", pianoLabel, ev.Units)
		d.engine.Bend(ev.Base, ev.Units)
	case wire.Gesture:
		fmt.Fprintf(d.display, "%s %s\n", gestureLabel, ev.Name())
		if shot, ok := d.gestures.Lookup(ev); ok {
			d.engine.Trigger(shot.Pitch, wire.DefaultVelocity, shot.Duration)
		}
	case wire.Telemetry:
		renderTelemetry(d.display, ev)
	case wire.Text:
		if ev != "" {
			fmt.Fprintln(d.display, string(ev))
		}
	}
}
