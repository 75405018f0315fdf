// Package playback plays assistant audio chunks as they stream in.
package playback

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

// Sink receives PCM16 bytes. portaudio.OutputStream is one.
type Sink interface {
	io.WriteCloser
}

// OpenFunc opens a fresh sink. The Player calls it lazily on the first
// chunk and again after every Stop.
type OpenFunc func() (Sink, error)

var ErrClosed = errors.New("playback: player closed")

// Player serialises chunk writes to one sink. Stop interrupts playback:
// the sink is closed and chunks are dropped until Resume.
type Player struct {
	open OpenFunc

	mu      sync.Mutex
	sink    Sink
	stopped bool
	closed  bool
}

func NewPlayer(open OpenFunc) *Player {
	return &Player{open: open}
}

// Play writes one chunk. It is a no-op while stopped.
func (p *Player) Play(chunk []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.stopped || len(chunk) == 0 {
		return nil
	}
	if p.sink == nil {
		sink, err := p.open()
		if err != nil {
			return err
		}
		p.sink = sink
	}
	if _, err := p.sink.Write(chunk); err != nil {
		p.closeSink()
		return err
	}
	return nil
}

// Stop drops the current sink and any chunk that arrives before Resume.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	p.closeSink()
}

// Resume re-enables playback after Stop.
func (p *Player) Resume() {
	p.mu.Lock()
	p.stopped = false
	p.mu.Unlock()
}

// Stopped reports whether chunks are currently being dropped.
func (p *Player) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.closeSink()
}

func (p *Player) closeSink() error {
	if p.sink == nil {
		return nil
	}
	err := p.sink.Close()
	if err != nil {
		slog.Warn("playback: close sink", "error", err)
	}
	p.sink = nil
	return err
}
