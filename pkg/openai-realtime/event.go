package openairealtime

// Client event types (sent from client to server).
const (
	EventTypeSessionUpdate = "session.update"

	EventTypeInputAudioBufferAppend = "input_audio_buffer.append"
	EventTypeInputAudioBufferCommit = "input_audio_buffer.commit"
	EventTypeInputAudioBufferClear  = "input_audio_buffer.clear"

	EventTypeConversationItemCreate   = "conversation.item.create"
	EventTypeConversationItemTruncate = "conversation.item.truncate"

	EventTypeResponseCreate = "response.create"
	EventTypeResponseCancel = "response.cancel"
)

// Server event types (sent from server to client).
const (
	EventTypeError = "error"

	EventTypeSessionCreated = "session.created"
	EventTypeSessionUpdated = "session.updated"

	EventTypeConversationCreated     = "conversation.created"
	EventTypeConversationItemCreated = "conversation.item.created"

	EventTypeInputAudioBufferCommitted     = "input_audio_buffer.committed"
	EventTypeInputAudioBufferCleared       = "input_audio_buffer.cleared"
	EventTypeInputAudioBufferSpeechStarted = "input_audio_buffer.speech_started"
	EventTypeInputAudioBufferSpeechStopped = "input_audio_buffer.speech_stopped"

	EventTypeResponseCreated          = "response.created"
	EventTypeResponseDone             = "response.done"
	EventTypeResponseOutputItemAdded  = "response.output_item.added"
	EventTypeResponseOutputItemDone   = "response.output_item.done"
	EventTypeResponseContentPartAdded = "response.content_part.added"
	EventTypeResponseContentPartDone  = "response.content_part.done"
	EventTypeResponseContentDone      = "response.content.done"

	EventTypeResponseTextDelta = "response.text.delta"
	EventTypeResponseTextDone  = "response.text.done"

	EventTypeResponseAudioDelta = "response.audio.delta"
	EventTypeResponseAudioDone  = "response.audio.done"

	EventTypeResponseAudioTranscriptDelta = "response.audio_transcript.delta"
	EventTypeResponseAudioTranscriptDone  = "response.audio_transcript.done"

	EventTypeResponseFunctionCallArgumentsDelta = "response.function_call_arguments.delta"
	EventTypeResponseFunctionCallArgumentsDone  = "response.function_call_arguments.done"

	EventTypeRateLimitsUpdated = "rate_limits.updated"
)

// Conversation item types.
const (
	ItemTypeMessage            = "message"
	ItemTypeFunctionCall       = "function_call"
	ItemTypeFunctionCallOutput = "function_call_output"
)

// Lifecycle reports whether the event type is one of the session, buffer or
// response lifecycle events worth a log line. Streaming deltas are not.
func Lifecycle(eventType string) bool {
	switch eventType {
	case EventTypeResponseContentDone,
		EventTypeRateLimitsUpdated,
		EventTypeResponseDone,
		EventTypeInputAudioBufferCommitted,
		EventTypeInputAudioBufferSpeechStopped,
		EventTypeInputAudioBufferSpeechStarted,
		EventTypeSessionCreated,
		EventTypeSessionUpdated,
		EventTypeResponseFunctionCallArgumentsDone,
		EventTypeError:
		return true
	}
	return false
}

// ServerEvent represents a server event received from the Realtime API.
// Only the fields relevant to the event's Type are populated.
type ServerEvent struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitzero"`

	Session *SessionResource  `json:"session,omitzero"`
	Item    *ConversationItem `json:"item,omitzero"`

	ItemID       string `json:"item_id,omitzero"`
	AudioStartMs int    `json:"audio_start_ms,omitzero"`
	AudioEndMs   int    `json:"audio_end_ms,omitzero"`

	Response     *ResponseResource `json:"response,omitzero"`
	ResponseID   string            `json:"response_id,omitzero"`
	OutputIndex  int               `json:"output_index,omitzero"`
	ContentIndex int               `json:"content_index,omitzero"`

	// Delta carries text, transcript or base64 audio for *.delta events.
	Delta string `json:"delta,omitzero"`

	// Audio is the decoded Delta of a response.audio.delta event.
	Audio []byte `json:"-"`

	// Function call fields (response.function_call_arguments.done).
	CallID    string `json:"call_id,omitzero"`
	Name      string `json:"name,omitzero"`
	Arguments string `json:"arguments,omitzero"`

	// Error is set on "error" events.
	Error *Error `json:"error,omitzero"`

	RateLimits []RateLimit `json:"rate_limits,omitzero"`

	// Raw is the original JSON message.
	Raw []byte `json:"-"`
}

// RateLimit represents rate limit information.
type RateLimit struct {
	Name         string  `json:"name"`
	Limit        int     `json:"limit"`
	Remaining    int     `json:"remaining"`
	ResetSeconds float64 `json:"reset_seconds"`
}
