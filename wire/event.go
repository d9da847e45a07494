// Package wire decodes the line protocol spoken by the glove controller.
//
// Every line is one event with comma separated fields:
//
//	G,<id>,<name>                gesture
//	P,ON,<pitch>[,<velocity>]    note on
//	P,ON,CHORD,<pitch>...        chord on
//	P,OFF,<pitch>                note off
//	P,OFF,CHORD,<pitch>...       chord off
//	P,BEND,<pitch>,<bend>        pitch bend
//	R,<raw0..raw4>,<mapped0..4>  sensor telemetry
//
// Lines with any other prefix are passed through as Text.
package wire

import "fmt"

type Event interface {
	isEvent()
}

func (NoteOn) isEvent()    {}
func (NoteOff) isEvent()   {}
func (ChordOn) isEvent()   {}
func (ChordOff) isEvent()  {}
func (PitchBend) isEvent() {}
func (Gesture) isEvent()   {}
func (Telemetry) isEvent() {}
func (Text) isEvent()      {}

const DefaultVelocity = 100

type NoteOn struct {
	Pitch    int
	Velocity int
}

type NoteOff struct {
	Pitch int
}

type ChordOn struct {
	Pitches []int
}

type ChordOff struct {
	Pitches []int
}

// PitchBend bends Base by Units in [-8192, 8191].
type PitchBend struct {
	Base  int
	Units int
}

// Gesture is a recognized hand gesture. Token is the name the controller
// sent, which may be empty.
type Gesture struct {
	ID    int
	Token string
}

// Telemetry carries the five raw and five mapped flex sensor readings.
type Telemetry struct {
	Raw    [5]int
	Mapped [5]int
}

// Text is a line the protocol doesn't know about.
type Text string

// ParseError describes a malformed protocol line.
type ParseError struct {
	Line string
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Msg, e.Pos, e.Line)
}
