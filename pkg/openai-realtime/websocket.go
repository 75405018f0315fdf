package openairealtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocketSession is a WebSocket-based realtime session.
type WebSocketSession struct {
	conn      *websocket.Conn
	config    *ConnectConfig
	closeCh   chan struct{}
	eventsCh  chan eventOrError
	closeOnce sync.Once

	mu        sync.Mutex // serialises writes and guards sessionID
	sessionID string
}

type eventOrError struct {
	event *ServerEvent
	err   error
}

func (c *Client) connectWebSocket(ctx context.Context, config *ConnectConfig) (*WebSocketSession, error) {
	if config == nil {
		config = &ConnectConfig{}
	}
	if config.Model == "" {
		config.Model = ModelGPT4oRealtimePreview
	}

	endpoint := c.config.wsURL + "?model=" + url.QueryEscape(config.Model)

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.config.apiKey)
	headers.Set("OpenAI-Beta", "realtime=v1")
	if c.config.organization != "" {
		headers.Set("OpenAI-Organization", c.config.organization)
	}
	if c.config.project != "" {
		headers.Set("OpenAI-Project", c.config.project)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.config.handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		if resp != nil {
			return nil, &Error{
				Code:       "connection_failed",
				Message:    err.Error(),
				HTTPStatus: resp.StatusCode,
			}
		}
		return nil, fmt.Errorf("openai-realtime: dial: %w", err)
	}

	s := &WebSocketSession{
		conn:     conn,
		config:   config,
		closeCh:  make(chan struct{}),
		eventsCh: make(chan eventOrError, 100),
	}
	go s.readLoop()
	return s, nil
}

func newEventID() string {
	return "evt_" + uuid.New().String()[:12]
}

// UpdateSession sends a session.update event.
func (s *WebSocketSession) UpdateSession(config *SessionConfig) error {
	return s.send(EventTypeSessionUpdate, map[string]any{"session": config})
}

// AppendAudio appends raw audio to the input buffer.
func (s *WebSocketSession) AppendAudio(audio []byte) error {
	return s.AppendAudioBase64(base64.StdEncoding.EncodeToString(audio))
}

// AppendAudioBase64 appends base64 audio to the input buffer.
func (s *WebSocketSession) AppendAudioBase64(audioBase64 string) error {
	return s.send(EventTypeInputAudioBufferAppend, map[string]any{"audio": audioBase64})
}

func (s *WebSocketSession) CommitInput() error {
	return s.send(EventTypeInputAudioBufferCommit, nil)
}

func (s *WebSocketSession) ClearInput() error {
	return s.send(EventTypeInputAudioBufferClear, nil)
}

// AddUserMessage adds a user text message to the conversation.
func (s *WebSocketSession) AddUserMessage(text string) error {
	return s.createItem(textMessage("user", text))
}

// AddSystemMessage adds a system text message to the conversation.
func (s *WebSocketSession) AddSystemMessage(text string) error {
	return s.createItem(textMessage("system", text))
}

func textMessage(role, text string) ConversationItem {
	return ConversationItem{
		Type:    ItemTypeMessage,
		Role:    role,
		Content: []ContentPart{{Type: "input_text", Text: text}},
	}
}

// AddFunctionCall records a function_call item.
func (s *WebSocketSession) AddFunctionCall(callID, name, arguments string) error {
	return s.createItem(ConversationItem{
		Type:      ItemTypeFunctionCall,
		CallID:    callID,
		Name:      name,
		Arguments: arguments,
	})
}

// AddFunctionCallOutput sends a function_call_output item.
func (s *WebSocketSession) AddFunctionCallOutput(callID, output string) error {
	return s.createItem(ConversationItem{
		Type:   ItemTypeFunctionCallOutput,
		CallID: callID,
		Output: output,
	})
}

func (s *WebSocketSession) createItem(item ConversationItem) error {
	return s.send(EventTypeConversationItemCreate, map[string]any{"item": item})
}

func (s *WebSocketSession) TruncateItem(itemID string, contentIndex int, audioEndMs int) error {
	return s.send(EventTypeConversationItemTruncate, map[string]any{
		"item_id":       itemID,
		"content_index": contentIndex,
		"audio_end_ms":  audioEndMs,
	})
}

// CreateResponse requests a model response.
func (s *WebSocketSession) CreateResponse(opts *ResponseCreateOptions) error {
	if opts == nil {
		return s.send(EventTypeResponseCreate, nil)
	}
	return s.send(EventTypeResponseCreate, map[string]any{"response": opts})
}

// CancelResponse cancels responseID, or the current response when empty.
func (s *WebSocketSession) CancelResponse(responseID string) error {
	if responseID == "" {
		return s.send(EventTypeResponseCancel, nil)
	}
	return s.send(EventTypeResponseCancel, map[string]any{"response_id": responseID})
}

// Events returns an iterator over server events.
func (s *WebSocketSession) Events() iter.Seq2[*ServerEvent, error] {
	return func(yield func(*ServerEvent, error) bool) {
		for {
			select {
			case <-s.closeCh:
				return
			case item, ok := <-s.eventsCh:
				if !ok {
					return
				}
				if !yield(item.event, item.err) || item.err != nil {
					return
				}
			}
		}
	}
}

// SendRaw sends a raw client event. An event_id is added when missing.
func (s *WebSocketSession) SendRaw(event map[string]any) error {
	if _, ok := event["event_id"]; !ok {
		event["event_id"] = newEventID()
	}
	return s.write(event)
}

// SessionID returns the server-assigned session ID.
func (s *WebSocketSession) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Close closes the connection. It is safe to call more than once.
func (s *WebSocketSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		err = s.conn.Close()
	})
	return err
}

func (s *WebSocketSession) send(eventType string, fields map[string]any) error {
	event := map[string]any{
		"event_id": newEventID(),
		"type":     eventType,
	}
	for k, v := range fields {
		event[k] = v
	}
	return s.write(event)
}

func (s *WebSocketSession) write(event map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		if data, err := json.Marshal(event); err == nil {
			slog.Debug("openai-realtime: send", "content", truncate(string(data), 500))
		}
	}
	if err := s.conn.WriteJSON(event); err != nil {
		return fmt.Errorf("openai-realtime: write: %w", err)
	}
	return nil
}

func (s *WebSocketSession) readLoop() {
	defer close(s.eventsCh)

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			s.deliver(eventOrError{err: fmt.Errorf("openai-realtime: read: %w", err)})
			return
		}

		if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			slog.Debug("openai-realtime: recv", "len", len(message), "content", truncate(string(message), 1000))
		}

		event, err := ParseEvent(message)
		if err != nil {
			slog.Warn("openai-realtime: skip undecodable event", "error", err)
			continue
		}

		if event.Type == EventTypeSessionCreated && event.Session != nil {
			s.mu.Lock()
			s.sessionID = event.Session.ID
			s.mu.Unlock()
		}

		if !s.deliver(eventOrError{event: event}) {
			return
		}
	}
}

// deliver reports false once the session has been closed.
func (s *WebSocketSession) deliver(item eventOrError) bool {
	select {
	case <-s.closeCh:
		return false
	case s.eventsCh <- item:
		return true
	}
}

// ParseEvent decodes one server message. Audio deltas are base64-decoded into
// ServerEvent.Audio.
func ParseEvent(message []byte) (*ServerEvent, error) {
	var event ServerEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	event.Raw = message

	if event.Type == EventTypeResponseAudioDelta && event.Delta != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Delta)
		if err != nil {
			return nil, fmt.Errorf("decode audio delta: %w", err)
		}
		event.Audio = decoded
	}
	return &event, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Session = (*WebSocketSession)(nil)
