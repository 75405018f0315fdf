package openairealtime

import "iter"

// Session is the client side of one realtime conversation.
type Session interface {
	// UpdateSession sends a session.update with the given configuration.
	UpdateSession(config *SessionConfig) error

	// AppendAudio base64-encodes raw audio and appends it to the input buffer.
	// The bytes must match the session's input_audio_format.
	AppendAudio(audio []byte) error

	// AppendAudioBase64 appends already-encoded audio to the input buffer.
	AppendAudioBase64(audioBase64 string) error

	// CommitInput commits the input buffer. Only needed without server VAD.
	CommitInput() error

	// ClearInput discards the input buffer.
	ClearInput() error

	AddUserMessage(text string) error
	AddSystemMessage(text string) error

	// AddFunctionCall records a function_call item in the conversation.
	AddFunctionCall(callID, name, arguments string) error

	// AddFunctionCallOutput returns a tool result for callID.
	AddFunctionCallOutput(callID, output string) error

	// TruncateItem truncates assistant audio already sent to the listener.
	TruncateItem(itemID string, contentIndex int, audioEndMs int) error

	// CreateResponse asks the model to respond. Pass nil for defaults.
	CreateResponse(opts *ResponseCreateOptions) error

	// CancelResponse cancels an in-flight response. An empty responseID
	// cancels whatever is in progress.
	CancelResponse(responseID string) error

	// Events yields server events until the connection closes. A transport
	// error is yielded once and ends the iteration.
	Events() iter.Seq2[*ServerEvent, error]

	// SendRaw sends an arbitrary client event.
	SendRaw(event map[string]any) error

	// SessionID is empty until session.created has been received.
	SessionID() string

	Close() error
}
