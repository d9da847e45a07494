package wire

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxPitch    = 127
	MaxVelocity = 127
	MinBend     = -8192
	MaxBend     = 8191
)

// Parse decodes one protocol line. Malformed G, P and R lines return a
// *ParseError; lines with any other prefix come back as Text.
func Parse(line string) (Event, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 2 || line[1] != ',' || !strings.ContainsRune("GPR", rune(line[0])) {
		return Text(line), nil
	}
	tokens, err := lex(line)
	if err != nil {
		return nil, &ParseError{Line: line, Pos: len(line), Msg: err.Error()}
	}
	p := parser{line: line, fields: fields(tokens)}
	return p.parse()
}

// fields drops the commas between tokens. Two commas in a row or a trailing
// comma stand for an empty word.
func fields(tokens []token) []token {
	var out []token
	expectField := true
	for _, t := range tokens {
		switch t.typ {
		case typeComma, typeEOF:
			if expectField {
				out = append(out, token{typeWord, t.pos, ""})
			}
			expectField = true
		default:
			out = append(out, t)
			expectField = false
		}
	}
	return out
}

type parser struct {
	line   string
	pos    int
	fields []token
}

func (p *parser) next() token {
	t := p.fields[p.pos]
	p.pos++
	return t
}

func (p *parser) peek() token {
	t := p.next()
	p.pos--
	return t
}

func (p *parser) more() bool {
	return p.pos < len(p.fields)
}

func (p *parser) parse() (Event, error) {
	switch kind := p.next(); kind.text {
	case "G":
		return p.gesture()
	case "P":
		return p.piano()
	default:
		return p.telemetry()
	}
}

func (p *parser) gesture() (Event, error) {
	var g Gesture
	id, err := p.int("gesture id", 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	g.ID = id
	if p.more() {
		g.Token = p.next().text
	}
	return p.done(g)
}

func (p *parser) piano() (Event, error) {
	if !p.more() {
		return nil, p.errorf("missing piano event type")
	}
	switch typ := p.next(); typ.text {
	case "ON":
		if p.more() && p.peek().text == "CHORD" {
			p.next()
			pitches, err := p.pitches()
			if err != nil {
				return nil, err
			}
			return ChordOn{Pitches: pitches}, nil
		}
		pitch, err := p.int("pitch", 0, MaxPitch)
		if err != nil {
			return nil, err
		}
		velocity := DefaultVelocity
		if p.more() {
			if velocity, err = p.int("velocity", 0, MaxVelocity); err != nil {
				return nil, err
			}
		}
		return p.done(NoteOn{Pitch: pitch, Velocity: velocity})
	case "OFF":
		if p.more() && p.peek().text == "CHORD" {
			p.next()
			pitches, err := p.pitches()
			if err != nil {
				return nil, err
			}
			return ChordOff{Pitches: pitches}, nil
		}
		pitch, err := p.int("pitch", 0, MaxPitch)
		if err != nil {
			return nil, err
		}
		return p.done(NoteOff{Pitch: pitch})
	case "BEND":
		base, err := p.int("pitch", 0, MaxPitch)
		if err != nil {
			return nil, err
		}
		units, err := p.int("bend", MinBend, MaxBend)
		if err != nil {
			return nil, err
		}
		return p.done(PitchBend{Base: base, Units: units})
	default:
		p.pos--
		return nil, p.errorf("unknown piano event %q", typ.text)
	}
}

func (p *parser) pitches() ([]int, error) {
	var pitches []int
	for p.more() {
		pitch, err := p.int("pitch", 0, MaxPitch)
		if err != nil {
			return nil, err
		}
		pitches = append(pitches, pitch)
	}
	if len(pitches) == 0 {
		return nil, p.errorf("chord without pitches")
	}
	return pitches, nil
}

func (p *parser) telemetry() (Event, error) {
	var t Telemetry
	for i := range t.Raw {
		n, err := p.int("raw value", -1<<31, 1<<31-1)
		if err != nil {
			return nil, err
		}
		t.Raw[i] = n
	}
	for i := range t.Mapped {
		n, err := p.int("mapped value", -1<<31, 1<<31-1)
		if err != nil {
			return nil, err
		}
		t.Mapped[i] = n
	}
	return p.done(t)
}

// int reads the next field as an integer in [min, max].
func (p *parser) int(what string, min, max int) (int, error) {
	if !p.more() {
		return 0, p.errorf("missing %s", what)
	}
	t := p.next()
	if t.typ != typeInt {
		p.pos--
		return 0, p.errorf("%s is not a number: %q", what, t.text)
	}
	n, err := strconv.Atoi(t.text)
	if err != nil || n < min || n > max {
		p.pos--
		return 0, p.errorf("%s out of range %d - %d: %s", what, min, max, t.text)
	}
	return n, nil
}

// done returns ev if all fields were consumed.
func (p *parser) done(ev Event) (Event, error) {
	if err := p.end(); err != nil {
		return nil, err
	}
	return ev, nil
}

func (p *parser) end() error {
	if p.more() {
		return p.errorf("unexpected field %q", p.peek().text)
	}
	return nil
}

// errorf reports an error at the current field, or at the end of the line
// when all fields have been read.
func (p *parser) errorf(format string, args ...interface{}) error {
	pos := len(p.line)
	if p.more() {
		pos = p.peek().pos
	}
	return &ParseError{Line: p.line, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
