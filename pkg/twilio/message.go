// Package twilio speaks the Twilio Programmable Voice media-stream protocol:
// the JSON frames exchanged over the call's websocket and the TwiML that
// starts such a stream.
package twilio

// Frame event names.
const (
	EventConnected = "connected"
	EventStart     = "start"
	EventMedia     = "media"
	EventMark      = "mark"
	EventStop      = "stop"
	EventClear     = "clear"
	EventDTMF      = "dtmf"
)

// Message is one media-stream frame in either direction.
type Message struct {
	Event          string `json:"event"`
	SequenceNumber string `json:"sequenceNumber,omitempty"`
	StreamSid      string `json:"streamSid,omitempty"`
	Protocol       string `json:"protocol,omitempty"`
	Version        string `json:"version,omitempty"`

	Start *Start `json:"start,omitempty"`
	Media *Media `json:"media,omitempty"`
	Mark  *Mark  `json:"mark,omitempty"`
	Stop  *Stop  `json:"stop,omitempty"`
}

// Start is the payload of the first frame after connected.
type Start struct {
	StreamSid        string            `json:"streamSid"`
	AccountSid       string            `json:"accountSid,omitempty"`
	CallSid          string            `json:"callSid,omitempty"`
	Tracks           []string          `json:"tracks,omitempty"`
	CustomParameters map[string]string `json:"customParameters,omitempty"`
	MediaFormat      *MediaFormat      `json:"mediaFormat,omitempty"`
}

// MediaFormat is always audio/x-mulaw, 8000 Hz, mono for inbound audio.
type MediaFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
}

// Media carries base64 μ-law audio.
type Media struct {
	Track     string `json:"track,omitempty"`
	Chunk     string `json:"chunk,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   string `json:"payload"`
}

type Mark struct {
	Name string `json:"name"`
}

type Stop struct {
	AccountSid string `json:"accountSid,omitempty"`
	CallSid    string `json:"callSid,omitempty"`
}

// StreamID returns the stream sid of a start frame, falling back to the
// top-level field.
func (m *Message) StreamID() string {
	if m.Start != nil && m.Start.StreamSid != "" {
		return m.Start.StreamSid
	}
	return m.StreamSid
}

// MediaMessage builds an outbound audio frame.
func MediaMessage(streamSid, payload string) *Message {
	return &Message{Event: EventMedia, StreamSid: streamSid, Media: &Media{Payload: payload}}
}

// ClearMessage tells Twilio to drop audio it has buffered for playback.
func ClearMessage(streamSid string) *Message {
	return &Message{Event: EventClear, StreamSid: streamSid}
}

// MarkMessage asks Twilio to echo name back once playback reaches it.
func MarkMessage(streamSid, name string) *Message {
	return &Message{Event: EventMark, StreamSid: streamSid, Mark: &Mark{Name: name}}
}
