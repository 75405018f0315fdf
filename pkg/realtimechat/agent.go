// Package realtimechat is a console front end for the reservation agent:
// typed lines go to the realtime model, spoken replies go to the speaker.
package realtimechat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"

	openairealtime "github.com/irtiza07/public-api/pkg/openai-realtime"
)

// Session is the part of openairealtime.Session the agent drives.
type Session interface {
	UpdateSession(config *openairealtime.SessionConfig) error
	AddSystemMessage(text string) error
	AddUserMessage(text string) error
	AddFunctionCallOutput(callID, output string) error
	CreateResponse(opts *openairealtime.ResponseCreateOptions) error
	CancelResponse(responseID string) error
	Events() iter.Seq2[*openairealtime.ServerEvent, error]
	Close() error
}

var _ Session = (*openairealtime.WebSocketSession)(nil)

// Player plays PCM16 chunks; playback.Player implements it.
type Player interface {
	Play(chunk []byte) error
	Stop()
	Resume()
	Close() error
}

// ToolHandler executes function calls; restaurant.Handler implements it.
type ToolHandler interface {
	Call(name, arguments string) string
}

type Config struct {
	// Instructions is added as a system message on Start.
	Instructions string
	// Voice is applied with session.update when set.
	Voice string
	Tools []openairealtime.Tool
}

// Agent owns one realtime session for the lifetime of a console chat.
type Agent struct {
	cfg     Config
	session Session
	player  Player
	tools   ToolHandler
	out     io.Writer

	mu         sync.Mutex
	responding bool
	responseID string
	text       strings.Builder

	closeOnce sync.Once
}

func New(cfg Config, session Session, player Player, tools ToolHandler, out io.Writer) *Agent {
	if out == nil {
		out = io.Discard
	}
	return &Agent{cfg: cfg, session: session, player: player, tools: tools, out: out}
}

// Start configures the session and installs the persona.
func (a *Agent) Start() error {
	if a.cfg.Voice != "" {
		err := a.session.UpdateSession(&openairealtime.SessionConfig{
			Voice:             a.cfg.Voice,
			OutputAudioFormat: openairealtime.AudioFormatPCM16,
		})
		if err != nil {
			return fmt.Errorf("realtimechat: session update: %w", err)
		}
	}
	if a.cfg.Instructions != "" {
		if err := a.session.AddSystemMessage(a.cfg.Instructions); err != nil {
			return fmt.Errorf("realtimechat: system message: %w", err)
		}
	}
	return nil
}

// Send submits one line of user input. A response still in flight is
// interrupted first: playback stops and the response is cancelled.
func (a *Agent) Send(line string) error {
	a.mu.Lock()
	id, busy := a.responseID, a.responding
	a.mu.Unlock()

	if busy && id != "" {
		fmt.Fprintln(a.out, "[Interrupting previous response...]")
		a.player.Stop()
		if err := a.session.CancelResponse(id); err != nil {
			return fmt.Errorf("realtimechat: cancel: %w", err)
		}
	}
	return a.session.AddUserMessage(line)
}

// Responding reports whether a response is in flight.
func (a *Agent) Responding() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.responding
}

// Text returns the text accumulated for the current response.
func (a *Agent) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text.String()
}

// Run consumes server events until the session ends or ctx is done.
func (a *Agent) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { a.Close() })
	defer stop()

	for ev, err := range a.session.Events() {
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("realtimechat: events: %w", err)
		}
		if err := a.handle(ev); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) handle(ev *openairealtime.ServerEvent) error {
	if openairealtime.Lifecycle(ev.Type) {
		slog.Debug("realtime event", "type", ev.Type)
	}

	switch ev.Type {
	case openairealtime.EventTypeConversationItemCreated:
		if !needsResponse(ev.Item) {
			return nil
		}
		return a.session.CreateResponse(&openairealtime.ResponseCreateOptions{
			Modalities: []string{openairealtime.ModalityText, openairealtime.ModalityAudio},
			Tools:      a.cfg.Tools,
			ToolChoice: openairealtime.ToolChoiceAuto,
		})

	case openairealtime.EventTypeResponseCreated:
		a.mu.Lock()
		if ev.Response != nil {
			a.responseID = ev.Response.ID
		}
		a.responding = true
		a.text.Reset()
		a.mu.Unlock()
		a.player.Resume()

	case openairealtime.EventTypeResponseTextDelta:
		a.mu.Lock()
		a.text.WriteString(ev.Delta)
		a.mu.Unlock()

	case openairealtime.EventTypeResponseAudioDelta:
		if err := a.player.Play(ev.Audio); err != nil {
			slog.Warn("realtimechat: play", "error", err)
			a.player.Stop()
		}

	case openairealtime.EventTypeResponseAudioDone:
		a.mu.Lock()
		a.responding = false
		a.responseID = ""
		a.text.Reset()
		a.mu.Unlock()

	case openairealtime.EventTypeResponseFunctionCallArgumentsDone:
		output := a.tools.Call(ev.Name, ev.Arguments)
		slog.Info("function call", "name", ev.Name, "call_id", ev.CallID)
		return a.session.AddFunctionCallOutput(ev.CallID, output)

	case openairealtime.EventTypeError:
		if ev.Error != nil {
			fmt.Fprintf(a.out, "error: %s\n", ev.Error.Error())
		}
	}
	return nil
}

// needsResponse is true for the items the model should answer: user
// messages and tool results. Items echoed from the model's own output
// would otherwise trigger a response loop.
func needsResponse(item *openairealtime.ConversationItem) bool {
	if item == nil {
		return false
	}
	switch item.Type {
	case openairealtime.ItemTypeFunctionCallOutput:
		return true
	case openairealtime.ItemTypeMessage:
		return item.Role == "user"
	}
	return false
}

// Close stops audio and closes the session.
func (a *Agent) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.player.Stop()
		err = errors.Join(a.player.Close(), a.session.Close())
	})
	return err
}
