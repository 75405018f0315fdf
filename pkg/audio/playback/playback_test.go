package playback

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

type memSink struct {
	bytes.Buffer
	closed bool
	err    error
}

func (s *memSink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.Buffer.Write(p)
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

type opener struct {
	sinks []*memSink
	err   error
}

func (o *opener) open() (Sink, error) {
	if o.err != nil {
		return nil, o.err
	}
	s := &memSink{}
	o.sinks = append(o.sinks, s)
	return s, nil
}

func TestPlayOpensLazily(t *testing.T) {
	o := &opener{}
	p := NewPlayer(o.open)
	if len(o.sinks) != 0 {
		t.Fatal("sink opened before first chunk")
	}
	p.Play([]byte{1, 2})
	p.Play([]byte{3, 4})
	if len(o.sinks) != 1 {
		t.Fatalf("opened %d sinks, want 1", len(o.sinks))
	}
	if got := o.sinks[0].Bytes(); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("sink got %v", got)
	}
}

func TestStopDropsUntilResume(t *testing.T) {
	o := &opener{}
	p := NewPlayer(o.open)
	p.Play([]byte{1})
	p.Stop()
	if !o.sinks[0].closed {
		t.Fatal("Stop did not close the sink")
	}
	if !p.Stopped() {
		t.Fatal("Stopped() = false after Stop")
	}
	if err := p.Play([]byte{2}); err != nil {
		t.Fatal(err)
	}
	if len(o.sinks) != 1 {
		t.Fatal("chunk played while stopped")
	}

	p.Resume()
	p.Play([]byte{3})
	if len(o.sinks) != 2 || !bytes.Equal(o.sinks[1].Bytes(), []byte{3}) {
		t.Fatalf("after Resume sinks = %d", len(o.sinks))
	}
}

func TestWriteErrorReopens(t *testing.T) {
	o := &opener{}
	p := NewPlayer(o.open)
	p.Play([]byte{1})
	o.sinks[0].err = errors.New("device gone")
	if err := p.Play([]byte{2}); err == nil {
		t.Fatal("want write error")
	}
	if err := p.Play([]byte{3}); err != nil {
		t.Fatal(err)
	}
	if len(o.sinks) != 2 {
		t.Fatalf("sinks = %d, want reopen", len(o.sinks))
	}
}

func TestOpenError(t *testing.T) {
	p := NewPlayer((&opener{err: errors.New("no device")}).open)
	if err := p.Play([]byte{1}); err == nil {
		t.Fatal("want open error")
	}
}

func TestClose(t *testing.T) {
	o := &opener{}
	p := NewPlayer(o.open)
	p.Play([]byte{1})
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if !o.sinks[0].closed {
		t.Fatal("sink not closed")
	}
	if err := p.Play([]byte{2}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Play after Close = %v", err)
	}
}

func TestConcurrentPlay(t *testing.T) {
	o := &opener{}
	p := NewPlayer(o.open)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				p.Play([]byte{0, 0})
			}
		}()
	}
	wg.Wait()
	if n := o.sinks[0].Len(); n != 8*50*2 {
		t.Fatalf("wrote %d bytes", n)
	}
}
