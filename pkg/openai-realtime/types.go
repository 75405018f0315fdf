package openairealtime

import "encoding/json"

// Models supported by the Realtime API.
const (
	ModelGPT4oRealtimePreview             = "gpt-4o-realtime-preview"
	ModelGPT4oRealtimePreview20241217     = "gpt-4o-realtime-preview-2024-12-17"
	ModelGPT4oMiniRealtimePreview         = "gpt-4o-mini-realtime-preview"
	ModelGPT4oMiniRealtimePreview20241217 = "gpt-4o-mini-realtime-preview-2024-12-17"
)

// Audio formats.
const (
	// AudioFormatPCM16 is 16-bit PCM, 24kHz, mono, little-endian.
	AudioFormatPCM16 = "pcm16"
	// AudioFormatG711ULaw is 8kHz G.711 mu-law, the telephony format.
	AudioFormatG711ULaw = "g711_ulaw"
	AudioFormatG711ALaw = "g711_alaw"
)

// PCM16SampleRate is the sample rate of AudioFormatPCM16 output.
const PCM16SampleRate = 24000

// Voices.
const (
	VoiceAlloy   = "alloy"
	VoiceAsh     = "ash"
	VoiceBallad  = "ballad"
	VoiceCoral   = "coral"
	VoiceEcho    = "echo"
	VoiceSage    = "sage"
	VoiceShimmer = "shimmer"
	VoiceVerse   = "verse"
)

// Turn detection modes.
const (
	VADServerVAD   = "server_vad"
	VADSemanticVAD = "semantic_vad"
)

const (
	ModalityText  = "text"
	ModalityAudio = "audio"
)

const (
	ToolChoiceAuto     = "auto"
	ToolChoiceNone     = "none"
	ToolChoiceRequired = "required"
)

// ConnectConfig selects the model for a new connection.
type ConnectConfig struct {
	// Model defaults to ModelGPT4oRealtimePreview.
	Model string `json:"model,omitzero" yaml:"model"`
}

// SessionConfig is the payload of a session.update event.
type SessionConfig struct {
	Modalities        []string `json:"modalities,omitzero"`
	Instructions      string   `json:"instructions,omitzero"`
	Voice             string   `json:"voice,omitzero"`
	InputAudioFormat  string   `json:"input_audio_format,omitzero"`
	OutputAudioFormat string   `json:"output_audio_format,omitzero"`

	InputAudioTranscription *TranscriptionConfig `json:"input_audio_transcription,omitzero"`

	// TurnDetection nil keeps the server's current setting.
	TurnDetection *TurnDetection `json:"turn_detection,omitzero"`

	// TurnDetectionDisabled sends "turn_detection": null, switching the
	// session to manual commit mode.
	TurnDetectionDisabled bool `json:"-"`

	Tools []Tool `json:"tools,omitzero"`

	// ToolChoice is "auto", "none", "required" or a function selector object.
	ToolChoice any `json:"tool_choice,omitzero"`

	Temperature             *float64 `json:"temperature,omitzero"`
	MaxResponseOutputTokens *int     `json:"max_response_output_tokens,omitzero"`
}

// MarshalJSON emits an explicit null turn_detection when
// TurnDetectionDisabled is set.
func (s SessionConfig) MarshalJSON() ([]byte, error) {
	type plain SessionConfig
	data, err := json.Marshal(plain(s))
	if err != nil || !s.TurnDetectionDisabled {
		return data, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["turn_detection"] = json.RawMessage("null")
	return json.Marshal(fields)
}

// TranscriptionConfig enables input audio transcription.
type TranscriptionConfig struct {
	Model string `json:"model,omitzero"`
}

// TurnDetection configures voice activity detection.
type TurnDetection struct {
	Type              string  `json:"type,omitzero"`
	Threshold         float64 `json:"threshold,omitzero"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms,omitzero"`
	SilenceDurationMs int     `json:"silence_duration_ms,omitzero"`
	CreateResponse    *bool   `json:"create_response,omitzero"`
	InterruptResponse *bool   `json:"interrupt_response,omitzero"`
	Eagerness         string  `json:"eagerness,omitzero"`
}

// Tool defines a function the model may call.
type Tool struct {
	// Type is always "function".
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitzero"`

	// Parameters is a JSON Schema object; any value that marshals to one.
	Parameters any `json:"parameters,omitzero"`
}

// ResponseCreateOptions is the optional "response" body of response.create.
type ResponseCreateOptions struct {
	Modalities        []string           `json:"modalities,omitzero"`
	Instructions      string             `json:"instructions,omitzero"`
	Voice             string             `json:"voice,omitzero"`
	OutputAudioFormat string             `json:"output_audio_format,omitzero"`
	Tools             []Tool             `json:"tools,omitzero"`
	ToolChoice        any                `json:"tool_choice,omitzero"`
	Temperature       *float64           `json:"temperature,omitzero"`
	MaxOutputTokens   *int               `json:"max_output_tokens,omitzero"`
	Conversation      string             `json:"conversation,omitzero"`
	Input             []ConversationItem `json:"input,omitzero"`
}

// SessionResource is the session state echoed by the server.
type SessionResource struct {
	ID                string         `json:"id,omitzero"`
	Object            string         `json:"object,omitzero"`
	Model             string         `json:"model,omitzero"`
	ExpiresAt         int64          `json:"expires_at,omitzero"`
	Modalities        []string       `json:"modalities,omitzero"`
	Instructions      string         `json:"instructions,omitzero"`
	Voice             string         `json:"voice,omitzero"`
	InputAudioFormat  string         `json:"input_audio_format,omitzero"`
	OutputAudioFormat string         `json:"output_audio_format,omitzero"`
	TurnDetection     *TurnDetection `json:"turn_detection,omitzero"`
	Tools             []Tool         `json:"tools,omitzero"`
	ToolChoice        any            `json:"tool_choice,omitzero"`
	Temperature       float64        `json:"temperature,omitzero"`
}

// ConversationItem is an item in the conversation.
type ConversationItem struct {
	ID        string        `json:"id,omitzero"`
	Object    string        `json:"object,omitzero"`
	Type      string        `json:"type,omitzero"`
	Status    string        `json:"status,omitzero"`
	Role      string        `json:"role,omitzero"`
	Content   []ContentPart `json:"content,omitzero"`
	CallID    string        `json:"call_id,omitzero"`
	Name      string        `json:"name,omitzero"`
	Arguments string        `json:"arguments,omitzero"`
	Output    string        `json:"output,omitzero"`
}

// ContentPart is one part of a message item.
type ContentPart struct {
	Type       string `json:"type,omitzero"`
	Text       string `json:"text,omitzero"`
	Audio      string `json:"audio,omitzero"`
	Transcript string `json:"transcript,omitzero"`
}

// ResponseResource describes a model response.
type ResponseResource struct {
	ID            string             `json:"id,omitzero"`
	Object        string             `json:"object,omitzero"`
	Status        string             `json:"status,omitzero"`
	StatusDetails *StatusDetails     `json:"status_details,omitzero"`
	Output        []ConversationItem `json:"output,omitzero"`
	Usage         *Usage             `json:"usage,omitzero"`
}

// StatusDetails explains a non-completed response status.
type StatusDetails struct {
	Type   string `json:"type,omitzero"`
	Reason string `json:"reason,omitzero"`
	Error  *Error `json:"error,omitzero"`
}

// Usage contains token usage information.
type Usage struct {
	TotalTokens  int `json:"total_tokens,omitzero"`
	InputTokens  int `json:"input_tokens,omitzero"`
	OutputTokens int `json:"output_tokens,omitzero"`
}
