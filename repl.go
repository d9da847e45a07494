package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/vlove/vlove/audio"
)

var errQuit = errors.New("quit")

type env struct {
	engine     *audio.Engine
	dispatcher *dispatcher
}

// eval handles one line of console input. Lines starting with ':' are
// console commands, anything else is fed to the protocol decoder.
func (e *env) eval(input string) (string, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, ":") {
		e.dispatcher.handleLine(input)
		return "", nil
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return "", fmt.Errorf("empty command")
	}
	name, args := fields[0], fields[1:]
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(args) < arity {
				return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(args))
			}
		} else if len(args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(args))
		}
		result, err := cmd.run(e, args)
		if err != nil && err != errQuit {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, err
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

// replay evaluates every line of the file at path, stopping at the first
// failing console command.
func replay(e *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if _, err := e.eval(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func repl(e *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := e.eval(line)
		if err == errQuit {
			return nil
		}
		if err != nil {
			fmt.Println(colorize(err.Error(), colorRed))
		} else if result != "" {
			fmt.Println(result)
		}
	}
}
