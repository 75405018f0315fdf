package twilio

import (
	"encoding/xml"
)

const (
	greetingWait  = "Please wait while we connect your call to the AI voice assistant."
	greetingReady = "O.K. you can start talking now."
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type say struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

type pause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

type connect struct {
	XMLName xml.Name `xml:"Connect"`
	Stream  stream
}

type stream struct {
	XMLName xml.Name `xml:"Stream"`
	URL     string   `xml:"url,attr"`
}

// IncomingCallTwiML answers an incoming call: two spoken lines separated
// by a one second pause, then a bidirectional media stream to streamURL.
func IncomingCallTwiML(streamURL string) ([]byte, error) {
	doc := twimlResponse{Verbs: []any{
		say{Text: greetingWait},
		pause{Length: 1},
		say{Text: greetingReady},
		connect{Stream: stream{URL: streamURL}},
	}}
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// MediaStreamURL is the websocket URL Twilio should dial for host.
func MediaStreamURL(host string) string {
	return "wss://" + host + "/twilio_restaurants/media-stream"
}
