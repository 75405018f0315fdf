package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irtiza07/public-api/pkg/bridge"
	openairealtime "github.com/irtiza07/public-api/pkg/openai-realtime"
	"github.com/irtiza07/public-api/pkg/twilio"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestStubRoutes(t *testing.T) {
	h := New(Config{}).Handler()
	tests := []struct{ path, message string }{
		{"/debugger_app/status", "Debug app is running"},
		{"/debugger_app/health", "Health check passed"},
		{"/debugger_app/info", "Debug app information"},
		{"/flight_tracker/track", "Tracking your flight"},
		{"/flight_tracker/arrival", "Flight arrival information"},
		{"/flight_tracker/departure", "Flight departure information"},
		{"/sql_query_builder/generate", "Generating SQL query"},
		{"/sql_query_builder/validate", "Validating SQL query"},
		{"/sql_query_builder/optimize", "Optimizing SQL query"},
		{"/twilio_restaurants/", "Twilio Media Stream Server is running..."},
		{"/langchain_stream_router/health", "I am healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, map[string]string{"message": tt.message}, body)
		})
	}
}

func TestStubRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Config{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debugger_app/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	h := New(Config{}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/flight_tracker/track", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "X-Custom")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "X-Custom", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")

	req = httptest.NewRequest(http.MethodGet, "/flight_tracker/track", nil)
	req.Header.Set("Origin", "https://example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIncomingCall(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			h := New(Config{PublicHost: "voice.example.com"}).Handler()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/twilio_restaurants/incoming-call", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			assert.Contains(t, body, `<Stream url="wss://voice.example.com/twilio_restaurants/media-stream">`)
			assert.Contains(t, body, "<Pause length=\"1\">")
		})
	}
}

func TestIncomingCallUsesRequestHost(t *testing.T) {
	h := New(Config{}).Handler()
	req := httptest.NewRequest(http.MethodPost, "/twilio_restaurants/incoming-call", nil)
	req.Host = "abc.ngrok.app"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "wss://abc.ngrok.app/twilio_restaurants/media-stream")
}

type fakeStreamer struct {
	chunks []string
	err    error
}

func (f fakeStreamer) Stream(ctx context.Context, q string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

func TestStreamAnswer(t *testing.T) {
	h := New(Config{LLM: fakeStreamer{chunks: []string{"The answer ", "is 42."}}}).Handler()
	rec := get(t, h, "/langchain_stream_router/stream_answer?query=meaning+of+life")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "The answer is 42.", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestStreamAnswerErrors(t *testing.T) {
	rec := get(t, New(Config{}).Handler(), "/langchain_stream_router/stream_answer?query=x")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h := New(Config{LLM: fakeStreamer{}}).Handler()
	rec = get(t, h, "/langchain_stream_router/stream_answer")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = New(Config{LLM: fakeStreamer{err: errors.New("boom")}}).Handler()
	rec = get(t, h, "/langchain_stream_router/stream_answer?query=x")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// Once output has started the status cannot change; the body is cut short.
	h = New(Config{LLM: fakeStreamer{chunks: []string{"partial"}, err: errors.New("boom")}}).Handler()
	rec = get(t, h, "/langchain_stream_router/stream_answer?query=x")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	m := bridge.NewMetrics("")
	reqs := NewRequestMetrics("", m.Registry())
	h := New(Config{Metrics: m.Handler(), Requests: reqs}).Handler()

	get(t, h, "/debugger_app/status")
	get(t, h, "/debugger_app/status")
	assert.Equal(t, 2.0, testutil.ToFloat64(reqs.RequestsTotal.WithLabelValues("/debugger_app/status", "GET", "200")))

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "publicapi_http_requests_total")
	assert.Contains(t, rec.Body.String(), "publicapi_bridge_calls_active")
}

type fakeVendor struct {
	events chan *openairealtime.ServerEvent
	audio  chan string

	closeOnce sync.Once
}

func newFakeVendor() *fakeVendor {
	return &fakeVendor{
		events: make(chan *openairealtime.ServerEvent, 8),
		audio:  make(chan string, 8),
	}
}

func (f *fakeVendor) UpdateSession(*openairealtime.SessionConfig) error { return nil }
func (f *fakeVendor) AppendAudioBase64(a string) error {
	f.audio <- a
	return nil
}
func (f *fakeVendor) AddFunctionCallOutput(string, string) error                 { return nil }
func (f *fakeVendor) CreateResponse(*openairealtime.ResponseCreateOptions) error { return nil }
func (f *fakeVendor) Events() iter.Seq2[*openairealtime.ServerEvent, error] {
	return func(yield func(*openairealtime.ServerEvent, error) bool) {
		for ev := range f.events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}
func (f *fakeVendor) Close() error {
	f.closeOnce.Do(func() { close(f.events) })
	return nil
}

type nopTools struct{}

func (nopTools) Call(string, string) string { return "{}" }

func TestMediaStream(t *testing.T) {
	vendor := newFakeVendor()
	s := New(Config{
		Bridge: bridge.New(bridge.Config{}, nopTools{}, nil),
		Dial:   func(context.Context) (bridge.Realtime, error) { return vendor, nil },
	})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/twilio_restaurants/media-stream"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(map[string]any{
		"event": "start",
		"start": map[string]any{"streamSid": "MZ1"},
	}))
	require.NoError(t, ws.WriteJSON(map[string]any{
		"event": "media",
		"media": map[string]any{"payload": "AAEC"},
	}))

	select {
	case got := <-vendor.audio:
		assert.Equal(t, "AAEC", got)
	case <-time.After(2 * time.Second):
		t.Fatal("caller audio not forwarded")
	}

	vendor.events <- &openairealtime.ServerEvent{
		Type:  openairealtime.EventTypeResponseAudioDelta,
		Audio: []byte{1, 2, 3},
	}
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg twilio.Message
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, twilio.EventMedia, msg.Event)
	assert.Equal(t, "MZ1", msg.StreamSid)
	require.NotNil(t, msg.Media)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), msg.Media.Payload)

	// Stopping the stream ends the call and closes the vendor side.
	require.NoError(t, ws.WriteJSON(map[string]any{"event": "stop"}))
	_, _, err = ws.ReadMessage()
	assert.Error(t, err)
}

func TestMediaStreamDialFailure(t *testing.T) {
	s := New(Config{
		Bridge: bridge.New(bridge.Config{}, nopTools{}, nil),
		Dial: func(context.Context) (bridge.Realtime, error) {
			return nil, errors.New("no route")
		},
	})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/twilio_restaurants/media-stream"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = ws.ReadMessage()
	assert.Error(t, err)
}

func TestMediaStreamUnconfigured(t *testing.T) {
	rec := get(t, New(Config{}).Handler(), "/twilio_restaurants/media-stream")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
