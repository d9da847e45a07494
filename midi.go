package main

import (
	"fmt"
	"sync/atomic"

	"github.com/vlove/vlove/wire"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// midiInput turns MIDI channel messages into protocol events so a regular
// keyboard can drive the engine like the glove does.
type midiInput struct {
	// last note-on pitch, used as the base of pitch bends
	last atomic.Int32
}

func newMIDIInput() *midiInput {
	m := &midiInput{}
	m.last.Store(60)
	return m
}

func (m *midiInput) translate(msg midi.Message) (wire.Event, bool) {
	var channel, key, velocity uint8
	var relative int16
	var absolute uint16
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		m.last.Store(int32(key))
		return wire.NoteOn{Pitch: int(key), Velocity: int(velocity)}, true
	case msg.GetNoteEnd(&channel, &key):
		return wire.NoteOff{Pitch: int(key)}, true
	case msg.GetPitchBend(&channel, &relative, &absolute):
		return wire.PitchBend{Base: int(m.last.Load()), Units: int(relative)}, true
	}
	return nil, false
}

// listenMIDI feeds events from the named input port to handle until the
// returned stop function is called.
func listenMIDI(port string, handle func(wire.Event)) (func(), error) {
	in, err := midi.FindInPort(port)
	if err != nil {
		return nil, fmt.Errorf("find midi port %q: %w", port, err)
	}
	m := newMIDIInput()
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		if ev, ok := m.translate(msg); ok {
			handle(ev)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return func() {
		stop()
		midi.CloseDriver()
	}, nil
}
