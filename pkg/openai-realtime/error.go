package openairealtime

import "fmt"

// Error represents an API error from OpenAI Realtime.
type Error struct {
	Type    string `json:"type,omitzero"`
	Code    string `json:"code,omitzero"`
	Message string `json:"message,omitzero"`
	Param   string `json:"param,omitzero"`

	// EventID is the ID of the client event that caused the error.
	EventID string `json:"event_id,omitzero"`

	// HTTPStatus is set when the handshake itself was rejected.
	HTTPStatus int `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("openai-realtime: %s: %s", e.Code, e.Message)
	case e.Type != "":
		return fmt.Sprintf("openai-realtime: %s: %s", e.Type, e.Message)
	case e.HTTPStatus != 0:
		return fmt.Sprintf("openai-realtime: http %d: %s", e.HTTPStatus, e.Message)
	}
	return "openai-realtime: " + e.Message
}
