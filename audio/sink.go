package audio

import (
	"context"
	"errors"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const bufferSize = 512

// Sink is an Output backed by the default PortAudio device. Every play
// request becomes a playback that the stream callback mixes in until it runs
// out of samples.
type Sink struct {
	mu     sync.Mutex
	plays  []*playback
	stream *portaudio.Stream
}

type playback struct {
	buf  Buffer
	pos  int
	done chan error
}

func NewSink() (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	s := &Sink{}
	stream, err := portaudio.OpenDefaultStream(0, 1, SampleRate, bufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Close() error {
	s.Stop()
	err := s.stream.Close()
	return errors.Join(err, portaudio.Terminate())
}

func (s *Sink) Play(ctx context.Context, buf Buffer) error {
	if len(buf) == 0 {
		return nil
	}
	p := s.add(buf)
	select {
	case err := <-p.done:
		return err
	case <-ctx.Done():
		s.remove(p)
		return ctx.Err()
	}
}

func (s *Sink) Fire(buf Buffer) error {
	if len(buf) > 0 {
		s.add(buf)
	}
	return nil
}

func (s *Sink) Stop() error {
	s.mu.Lock()
	for _, p := range s.plays {
		p.done <- ErrStopped
	}
	s.plays = nil
	s.mu.Unlock()
	return nil
}

func (s *Sink) add(buf Buffer) *playback {
	p := &playback{buf: buf, done: make(chan error, 1)}
	s.mu.Lock()
	s.plays = append(s.plays, p)
	s.mu.Unlock()
	return p
}

func (s *Sink) remove(p *playback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.plays {
		if q == p {
			s.plays = append(s.plays[:i], s.plays[i+1:]...)
			return
		}
	}
}

// Process is the stream callback. It writes the sum of all pending
// playbacks to out and retires the ones that finished.
func (s *Sink) Process(out []float32) {
	for i := range out {
		out[i] = 0.
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.plays[:0]
	for _, p := range s.plays {
		for i, sample := range p.buf[p.pos:min(p.pos+len(out), len(p.buf))] {
			out[i] += sample
		}
		p.pos += len(out)
		if p.pos >= len(p.buf) {
			p.done <- nil
			continue
		}
		active = append(active, p)
	}
	for i := len(active); i < len(s.plays); i++ {
		s.plays[i] = nil
	}
	s.plays = active
	clip(out)
}
