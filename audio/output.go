package audio

import (
	"context"
	"errors"
)

// Output is the audio device boundary. Implementations accept overlapping
// requests from several goroutines and mix them.
type Output interface {
	// Play queues buf and blocks until it has finished playing, ctx is done
	// or the output is stopped.
	Play(ctx context.Context, buf Buffer) error
	// Fire queues buf and returns immediately.
	Fire(buf Buffer) error
	// Stop silences everything that is playing right now.
	Stop() error
}

// ErrStopped is returned by Play when Stop cut the buffer short.
var ErrStopped = errors.New("output stopped")
