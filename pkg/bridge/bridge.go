// Package bridge connects a Twilio media stream to an OpenAI realtime
// session for the length of one phone call.
//
// Two loops run per call. One forwards caller audio to the model. The other
// forwards model audio back to the caller and executes the model's
// function calls. Each direction keeps its own frame order; nothing is
// buffered beyond the frame in hand. When either side goes away both
// sockets are closed and Serve returns once both loops have stopped.
package bridge

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	openairealtime "github.com/irtiza07/public-api/pkg/openai-realtime"
	"github.com/irtiza07/public-api/pkg/twilio"
)

// MediaStream is the caller side. *twilio.Conn implements it.
type MediaStream interface {
	Recv() (*twilio.Message, error)
	Send(*twilio.Message) error
	Close() error
}

// Realtime is the model side. *openairealtime.WebSocketSession implements
// it.
type Realtime interface {
	UpdateSession(config *openairealtime.SessionConfig) error
	AppendAudioBase64(audioBase64 string) error
	AddFunctionCallOutput(callID, output string) error
	CreateResponse(opts *openairealtime.ResponseCreateOptions) error
	Events() iter.Seq2[*openairealtime.ServerEvent, error]
	Close() error
}

// ToolHandler executes a function call and returns its JSON output.
// *restaurant.Handler implements it.
type ToolHandler interface {
	Call(name, arguments string) string
}

// Config is the session configuration sent at the start of every call.
type Config struct {
	Voice        string
	Instructions string
	Temperature  float64
	Tools        []openairealtime.Tool
}

// Bridge serves calls. One Bridge is shared by all calls; per-call state
// lives in Call.
type Bridge struct {
	cfg     Config
	tools   ToolHandler
	metrics *Metrics
}

// New returns a Bridge. metrics may be nil.
func New(cfg Config, tools ToolHandler, metrics *Metrics) *Bridge {
	if cfg.Voice == "" {
		cfg.Voice = openairealtime.VoiceAlloy
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	return &Bridge{cfg: cfg, tools: tools, metrics: metrics}
}

func (b *Bridge) sessionConfig() *openairealtime.SessionConfig {
	temp := b.cfg.Temperature
	return &openairealtime.SessionConfig{
		TurnDetection:     &openairealtime.TurnDetection{Type: openairealtime.VADServerVAD},
		InputAudioFormat:  openairealtime.AudioFormatG711ULaw,
		OutputAudioFormat: openairealtime.AudioFormatG711ULaw,
		Voice:             b.cfg.Voice,
		Instructions:      b.cfg.Instructions,
		Modalities:        []string{openairealtime.ModalityText, openairealtime.ModalityAudio},
		Temperature:       &temp,
		Tools:             b.cfg.Tools,
		ToolChoice:        openairealtime.ToolChoiceAuto,
	}
}

// Serve bridges one call until either side closes or ctx is done.
func (b *Bridge) Serve(ctx context.Context, media MediaStream, vendor Realtime) error {
	return b.Run(ctx, NewCall(), media, vendor)
}

// Run is Serve with a caller-supplied Call, which ends in StateClosed.
func (b *Bridge) Run(ctx context.Context, call *Call, media MediaStream, vendor Realtime) error {
	started := time.Now()
	b.metrics.callStarted()

	var (
		closing   atomic.Bool
		closeOnce sync.Once
	)
	closeAll := func() {
		closeOnce.Do(func() {
			closing.Store(true)
			media.Close()
			vendor.Close()
		})
	}
	stop := context.AfterFunc(ctx, closeAll)
	defer stop()

	if err := vendor.UpdateSession(b.sessionConfig()); err != nil {
		closeAll()
		call.close()
		b.metrics.callEnded("error", time.Since(started))
		return fmt.Errorf("bridge: session update: %w", err)
	}
	slog.Info("bridge: session update sent")
	call.setState(StateConnected)

	var (
		wg   sync.WaitGroup
		errs [2]error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer closeAll()
		if err := b.mediaToVendor(call, media, vendor); err != nil && !closing.Load() {
			errs[0] = err
		}
	}()
	go func() {
		defer wg.Done()
		defer closeAll()
		if err := b.vendorToMedia(call, media, vendor); err != nil && !closing.Load() {
			errs[1] = err
		}
	}()
	wg.Wait()
	call.close()

	err := errors.Join(errs[0], errs[1])
	outcome := "completed"
	if err != nil {
		outcome = "error"
		slog.Warn("bridge: call ended with error", "stream_sid", call.StreamSid(), "error", err)
	}
	b.metrics.callEnded(outcome, time.Since(started))
	slog.Info("bridge: call closed", "stream_sid", call.StreamSid(), "tool_calls", call.ToolCalls(), "duration", time.Since(started))
	return err
}

func (b *Bridge) mediaToVendor(call *Call, media MediaStream, vendor Realtime) error {
	for {
		m, err := media.Recv()
		if errors.Is(err, twilio.ErrClosed) {
			slog.Info("bridge: caller disconnected", "stream_sid", call.StreamSid())
			return nil
		}
		if err != nil {
			return err
		}

		switch m.Event {
		case twilio.EventStart:
			call.start(m.StreamID())
			slog.Info("bridge: incoming stream started", "stream_sid", m.StreamID())
		case twilio.EventMedia:
			if m.Media == nil {
				continue
			}
			if err := vendor.AppendAudioBase64(m.Media.Payload); err != nil {
				return err
			}
			b.metrics.frame("inbound")
		case twilio.EventStop:
			slog.Info("bridge: stream stopped", "stream_sid", call.StreamSid())
			return nil
		default:
			slog.Debug("bridge: media event", "event", m.Event)
		}
	}
}

func (b *Bridge) vendorToMedia(call *Call, media MediaStream, vendor Realtime) error {
	for ev, err := range vendor.Events() {
		if err != nil {
			return err
		}
		if err := b.handleEvent(call, media, vendor, ev); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bridge) handleEvent(call *Call, media MediaStream, vendor Realtime, ev *openairealtime.ServerEvent) error {
	if openairealtime.Lifecycle(ev.Type) {
		slog.Info("bridge: vendor event", "type", ev.Type)
	}

	switch ev.Type {
	case openairealtime.EventTypeSessionUpdated:
		slog.Info("bridge: session updated")

	case openairealtime.EventTypeResponseCreated:
		var id string
		if ev.Response != nil {
			id = ev.Response.ID
		}
		call.responseCreated(id)

	case openairealtime.EventTypeResponseAudioDone, openairealtime.EventTypeResponseDone:
		call.responseFinished()

	case openairealtime.EventTypeResponseAudioDelta:
		if len(ev.Audio) == 0 {
			return nil
		}
		sid := call.StreamSid()
		if sid == "" {
			slog.Debug("bridge: dropping audio before stream start")
			return nil
		}
		if err := media.Send(twilio.MediaMessage(sid, base64.StdEncoding.EncodeToString(ev.Audio))); err != nil {
			return err
		}
		b.metrics.frame("outbound")

	case openairealtime.EventTypeResponseAudioTranscriptDelta:
		call.appendTranscript(ev.Delta)

	case openairealtime.EventTypeResponseAudioTranscriptDone:
		if text := call.takeTranscript(); text != "" {
			slog.Info("bridge: assistant said", "text", text)
		}

	case openairealtime.EventTypeInputAudioBufferSpeechStarted:
		// Caller barged in: drop whatever Twilio still has queued.
		if sid := call.StreamSid(); sid != "" && call.Responding() {
			if err := media.Send(twilio.ClearMessage(sid)); err != nil {
				return err
			}
		}

	case openairealtime.EventTypeResponseFunctionCallArgumentsDone:
		return b.runTool(call, vendor, ev)

	case openairealtime.EventTypeError:
		b.metrics.vendorError()
		slog.Error("bridge: vendor error", "error", ev.Error)
	}
	return nil
}

// runTool executes one function call, returns its output to the model and
// asks for the follow-up response, in that order.
func (b *Bridge) runTool(call *Call, vendor Realtime, ev *openairealtime.ServerEvent) error {
	prev := call.State()
	call.setState(StateAwaitingToolResult)
	defer call.setState(prev)

	call.countToolCall()
	b.metrics.toolCall(ev.Name)
	slog.Info("bridge: tool call", "name", ev.Name, "call_id", ev.CallID)

	output := b.tools.Call(ev.Name, ev.Arguments)
	slog.Debug("bridge: tool output", "name", ev.Name, "output", output)

	if err := vendor.AddFunctionCallOutput(ev.CallID, output); err != nil {
		return err
	}
	return vendor.CreateResponse(&openairealtime.ResponseCreateOptions{
		Modalities: []string{openairealtime.ModalityText, openairealtime.ModalityAudio},
		Tools:      b.cfg.Tools,
		ToolChoice: openairealtime.ToolChoiceAuto,
	})
}
