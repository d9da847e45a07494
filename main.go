package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vlove/vlove/audio"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		output     = flag.String("output", "", "audio backend: portaudio or oto")
		run        = flag.String("run", "", "file of protocol lines and commands to run at start")
		midiPort   = flag.String("midi", "", "MIDI input port to listen to")
		preset     = flag.String("preset", "", "sound preset")
		quiet      = flag.Bool("quiet", false, "discard log output")
		strict     = flag.Bool("strict", false, "panic on invalid synthesis parameters")
	)
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}
	audio.Strict = *strict

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *preset != "" {
		cfg.Preset = *preset
	}

	out, closeOutput, err := openOutput(cfg.Output)
	if err != nil {
		log.Fatal(err)
	}

	engine := audio.NewEngine(out, cfg.MaxOneShots)
	if err := cfg.apply(engine); err != nil {
		log.Fatal(err)
	}
	engine.Start()

	var once sync.Once
	shutdown := func() {
		once.Do(func() {
			if err := engine.Close(); err != nil {
				log.Printf("engine: close: %v", err)
			}
			if err := closeOutput(); err != nil {
				log.Printf("output: close: %v", err)
			}
		})
	}

	env := &env{
		engine: engine,
		dispatcher: &dispatcher{
			engine:   engine,
			gestures: cfg.gestures(),
			display:  os.Stdout,
		},
	}

	if *midiPort != "" {
		stop, err := listenMIDI(*midiPort, env.dispatcher.handle)
		if err != nil {
			shutdown()
			log.Fatal(err)
		}
		defer stop()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		shutdown()
		os.Exit(0)
	}()

	if *run != "" {
		err := replay(env, *run)
		if err == errQuit {
			shutdown()
			return
		}
		if err != nil {
			fmt.Println(err)
		}
	}

	if err := repl(env); err != nil {
		fmt.Println(err)
	}
	shutdown()
}

// openOutput opens the named audio backend and returns a function that
// releases it.
func openOutput(name string) (audio.Output, func() error, error) {
	switch name {
	case "", "portaudio":
		sink, err := audio.NewSink()
		if err != nil {
			return nil, nil, fmt.Errorf("portaudio: %w", err)
		}
		if err := sink.Start(); err != nil {
			sink.Close()
			return nil, nil, fmt.Errorf("portaudio: %w", err)
		}
		return sink, sink.Close, nil
	case "oto":
		out, err := audio.NewOtoOutput()
		if err != nil {
			return nil, nil, err
		}
		return out, out.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown output %q", name)
	}
}
