// Package portaudio plays PCM16 audio on the default output device through
// the PortAudio C library.
//
// go build needs portaudio visible to pkg-config (brew install portaudio,
// apt install portaudio19-dev).
package portaudio

/*
#cgo pkg-config: portaudio-2.0

#include <portaudio.h>
#include <stdlib.h>
#include <string.h>

// PaStream is an opaque typedef; passing it as void* keeps cgo happy.
static PaError pa_open_output(void **stream, const PaStreamParameters *params,
                              double sampleRate, unsigned long framesPerBuffer) {
    return Pa_OpenStream((PaStream**)stream, NULL, params, sampleRate,
                         framesPerBuffer, paClipOff, NULL, NULL);
}

static PaError pa_start(void *stream) { return Pa_StartStream((PaStream*)stream); }
static PaError pa_stop(void *stream)  { return Pa_StopStream((PaStream*)stream); }
static PaError pa_close(void *stream) { return Pa_CloseStream((PaStream*)stream); }

static PaError pa_write(void *stream, const void *buffer, unsigned long frames) {
    return Pa_WriteStream((PaStream*)stream, buffer, frames);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

var (
	initOnce sync.Once
	initErr  error
)

func paError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return errors.New("portaudio: " + C.GoString(C.Pa_GetErrorText(code)))
}

// Initialize loads PortAudio once per process.
func Initialize() error {
	initOnce.Do(func() {
		initErr = paError(C.Pa_Initialize())
	})
	return initErr
}

func Terminate() error {
	return paError(C.Pa_Terminate())
}

// DefaultOutputName is the name of the default output device.
func DefaultOutputName() (string, error) {
	if err := Initialize(); err != nil {
		return "", err
	}
	idx := C.Pa_GetDefaultOutputDevice()
	if idx == C.paNoDevice {
		return "", errors.New("portaudio: no default output device")
	}
	info := C.Pa_GetDeviceInfo(idx)
	if info == nil {
		return "", errors.New("portaudio: failed to get device info")
	}
	return C.GoString(info.name), nil
}

// OutputStream is a started, blocking PCM16 output stream.
type OutputStream struct {
	mu       sync.Mutex
	stream   unsafe.Pointer
	buf      unsafe.Pointer
	channels int
	frames   int // capacity of buf in frames
	closed   bool
	pending  []byte // odd trailing byte of the previous Write
}

// OpenOutput opens and starts a stream on the default output device.
func OpenOutput(sampleRate, channels, framesPerBuffer int) (*OutputStream, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	dev := C.Pa_GetDefaultOutputDevice()
	if dev == C.paNoDevice {
		return nil, errors.New("portaudio: no default output device")
	}
	info := C.Pa_GetDeviceInfo(dev)
	params := &C.PaStreamParameters{
		device:           dev,
		channelCount:     C.int(channels),
		sampleFormat:     C.paInt16,
		suggestedLatency: info.defaultLowOutputLatency,
	}

	var stream unsafe.Pointer
	if err := paError(C.pa_open_output(&stream, params, C.double(sampleRate), C.ulong(framesPerBuffer))); err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	if err := paError(C.pa_start(stream)); err != nil {
		C.pa_close(stream)
		return nil, fmt.Errorf("start output: %w", err)
	}
	return &OutputStream{
		stream:   stream,
		buf:      C.malloc(C.size_t(framesPerBuffer * channels * 2)),
		channels: channels,
		frames:   framesPerBuffer,
	}, nil
}

// Write plays little-endian PCM16 bytes, blocking until PortAudio has
// accepted them.
func (s *OutputStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.New("portaudio: stream closed")
	}

	data := p
	if len(s.pending) > 0 {
		data = append(s.pending, p...)
		s.pending = nil
	}
	frameBytes := s.channels * 2
	if rem := len(data) % frameBytes; rem != 0 {
		s.pending = append([]byte(nil), data[len(data)-rem:]...)
		data = data[:len(data)-rem]
	}

	chunk := s.frames * frameBytes
	for len(data) > 0 {
		n := min(chunk, len(data))
		C.memcpy(s.buf, unsafe.Pointer(&data[0]), C.size_t(n))
		if err := paError(C.pa_write(s.stream, s.buf, C.ulong(n/frameBytes))); err != nil {
			return 0, err
		}
		data = data[n:]
	}
	return len(p), nil
}

// Close stops the stream and frees its buffer.
func (s *OutputStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	C.pa_stop(s.stream)
	err := paError(C.pa_close(s.stream))
	C.free(s.buf)
	return err
}
