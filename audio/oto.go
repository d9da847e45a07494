package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const otoPollInterval = 5 * time.Millisecond

// OtoOutput is an Output that gives every request its own oto player and
// lets oto do the mixing.
type OtoOutput struct {
	context *oto.Context

	mu      sync.Mutex
	players map[*oto.Player]bool
}

func NewOtoOutput() (*OtoOutput, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoOutput{
		context: context,
		players: make(map[*oto.Player]bool),
	}, nil
}

func (o *OtoOutput) Play(ctx context.Context, buf Buffer) error {
	if len(buf) == 0 {
		return nil
	}
	return o.wait(ctx, o.start(buf))
}

func (o *OtoOutput) Fire(buf Buffer) error {
	if len(buf) == 0 {
		return nil
	}
	p := o.start(buf)
	go func() { fired(o.wait(context.Background(), p)) }()
	return nil
}

// fired logs how a buffer played in fire mode ended, since nobody waits for
// it. Cut offs by Stop are expected.
func fired(err error) {
	if err != nil && !errors.Is(err, ErrStopped) {
		log.Printf("oto: fire: %v", err)
	}
}

func (o *OtoOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for p := range o.players {
		p.Pause()
		delete(o.players, p)
	}
	return nil
}

// Close stops all players and suspends the device.
func (o *OtoOutput) Close() error {
	o.Stop()
	if err := o.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *OtoOutput) start(buf Buffer) *oto.Player {
	p := o.context.NewPlayer(bytes.NewReader(float32LE(buf)))
	o.mu.Lock()
	o.players[p] = true
	o.mu.Unlock()
	p.Play()
	return p
}

func (o *OtoOutput) wait(ctx context.Context, p *oto.Player) error {
	ticker := time.NewTicker(otoPollInterval)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			o.release(p)
			return ctx.Err()
		case <-ticker.C:
		}
	}
	if !o.release(p) {
		return ErrStopped
	}
	if err := p.Err(); err != nil {
		return fmt.Errorf("cannot play buffer: %w", err)
	}
	return nil
}

// release closes p and reports whether it was still registered, i.e. not
// cut off by Stop.
func (o *OtoOutput) release(p *oto.Player) bool {
	o.mu.Lock()
	registered := o.players[p]
	delete(o.players, p)
	o.mu.Unlock()
	p.Close()
	return registered
}

func float32LE(buf Buffer) []byte {
	b := make([]byte, 4*len(buf))
	for i, sample := range buf {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(sample))
	}
	return b
}
