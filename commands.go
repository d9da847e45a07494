package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vlove/vlove/audio"
	"github.com/vlove/vlove/wire"
)

type command struct {
	name  string
	help  string
	run   func(*env, []string) (string, error)
	arity int // -n means len(args) must be >= n
}

var commands []command

func init() {
	commands = []command{
		{"set", "set <key> <value>: change an engine setting", setCommand, 2},
		{"get", "get <key>: show an engine setting", getCommand, 1},
		{"keys", "keys: list engine settings", keysCommand, 0},
		{"preset", "preset <name>: load a sound preset", presetCommand, 1},
		{"notes", "notes: show held notes", notesCommand, 0},
		{"chord", "chord <pitch>...: play a chord once", chordCommand, -1},
		{"panic", "panic: release all notes and silence output", panicCommand, 0},
		{"help", "help: show this list", helpCommand, 0},
		{"quit", "quit: exit", quitCommand, 0},
	}
}

func setCommand(env *env, args []string) (string, error) {
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return "", fmt.Errorf("not a number: %s", args[1])
	}
	return "", env.engine.Set(args[0], v)
}

func getCommand(env *env, args []string) (string, error) {
	v, err := env.engine.Get(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func keysCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, key := range env.engine.Keys() {
		v, _ := env.engine.Get(key)
		lo, hi, _ := env.engine.Range(key)
		lines = append(lines, fmt.Sprintf("%-15s %-6v [%v, %v]", key, v, lo, hi))
	}
	return strings.Join(lines, "\n"), nil
}

func presetCommand(env *env, args []string) (string, error) {
	if err := audio.LoadPreset(args[0], env.engine); err != nil {
		return "", fmt.Errorf("%w (have %s)", err, strings.Join(audio.Presets(), ", "))
	}
	return "", nil
}

func notesCommand(env *env, args []string) (string, error) {
	return fmt.Sprint(env.engine.Notes().Snapshot()), nil
}

func chordCommand(env *env, args []string) (string, error) {
	pitches, err := readPitches(args)
	if err != nil {
		return "", err
	}
	if !env.engine.Chord(pitches, wire.DefaultVelocity, 0) {
		return "", fmt.Errorf("chord dropped")
	}
	return "", nil
}

func panicCommand(env *env, args []string) (string, error) {
	return "", env.engine.Panic()
}

func helpCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, ":"+cmd.help)
	}
	return strings.Join(lines, "\n"), nil
}

func quitCommand(env *env, args []string) (string, error) {
	return "", errQuit
}

func readPitches(args []string) ([]int, error) {
	pitches := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("argument error: expected a pitch, got %q", arg)
		}
		if n < 0 || n > wire.MaxPitch {
			return nil, fmt.Errorf("pitch out of range 0 - %d: %d", wire.MaxPitch, n)
		}
		pitches = append(pitches, n)
	}
	return pitches, nil
}
