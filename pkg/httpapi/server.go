// Package httpapi is the HTTP surface: demo stub routes, the Twilio voice
// webhook and media stream, a streaming LLM answer route and /metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/irtiza07/public-api/pkg/bridge"
	"github.com/irtiza07/public-api/pkg/twilio"
)

// RealtimeDialer opens a model session for one call.
type RealtimeDialer func(ctx context.Context) (bridge.Realtime, error)

// Streamer streams an answer to a question. *llm.Client implements it.
type Streamer interface {
	Stream(ctx context.Context, question string) iter.Seq2[string, error]
}

type Config struct {
	// PublicHost is the host Twilio reaches this server on. Empty uses the
	// Host header of the incoming-call request.
	PublicHost string

	Bridge *bridge.Bridge
	Dial   RealtimeDialer

	// LLM may be nil; stream_answer then answers 503.
	LLM Streamer

	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Requests records per-route request counts when set.
	Requests *RequestMetrics
}

type Server struct {
	cfg    Config
	router *mux.Router
}

func New(cfg Config) *Server {
	s := &Server{cfg: cfg, router: mux.NewRouter()}
	s.setupRoutes()
	return s
}

// Handler returns the router wrapped in CORS handling. CORS sits outside
// the router so preflight requests never reach method matching.
func (s *Server) Handler() http.Handler {
	return cors(s.router)
}

// HTTPServer returns a server for addr. There is no write timeout: media
// streams and streamed answers stay open for minutes.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}
}

func (s *Server) setupRoutes() {
	if s.cfg.Requests != nil {
		s.router.Use(s.cfg.Requests.middleware)
	}

	stubs := []struct{ prefix, path, message string }{
		{"/debugger_app", "/status", "Debug app is running"},
		{"/debugger_app", "/health", "Health check passed"},
		{"/debugger_app", "/info", "Debug app information"},
		{"/flight_tracker", "/track", "Tracking your flight"},
		{"/flight_tracker", "/arrival", "Flight arrival information"},
		{"/flight_tracker", "/departure", "Flight departure information"},
		{"/sql_query_builder", "/generate", "Generating SQL query"},
		{"/sql_query_builder", "/validate", "Validating SQL query"},
		{"/sql_query_builder", "/optimize", "Optimizing SQL query"},
	}
	for _, st := range stubs {
		s.router.HandleFunc(st.prefix+st.path, message(st.message)).Methods(http.MethodGet)
	}

	tw := s.router.PathPrefix("/twilio_restaurants").Subrouter()
	tw.HandleFunc("/", message("Twilio Media Stream Server is running...")).Methods(http.MethodGet)
	tw.HandleFunc("/incoming-call", s.handleIncomingCall).Methods(http.MethodGet, http.MethodPost)
	tw.HandleFunc("/media-stream", s.handleMediaStream)

	lc := s.router.PathPrefix("/langchain_stream_router").Subrouter()
	lc.HandleFunc("/health", message("I am healthy")).Methods(http.MethodGet)
	lc.HandleFunc("/stream_answer", s.handleStreamAnswer).Methods(http.MethodGet)

	if s.cfg.Metrics != nil {
		s.router.Handle("/metrics", s.cfg.Metrics).Methods(http.MethodGet)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func message(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

func (s *Server) handleIncomingCall(w http.ResponseWriter, r *http.Request) {
	host := s.cfg.PublicHost
	if host == "" {
		host = r.Host
	}
	body, err := twilio.IncomingCallTwiML(twilio.MediaStreamURL(host))
	if err != nil {
		slog.Error("twiml", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write(body)
}

func (s *Server) handleMediaStream(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Bridge == nil || s.cfg.Dial == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "realtime bridge is not configured"})
		return
	}
	conn, err := twilio.Accept(w, r)
	if err != nil {
		// The upgrader has already written the HTTP error.
		slog.Warn("media stream upgrade", "error", err)
		return
	}
	slog.Info("media stream connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	vendor, err := s.cfg.Dial(ctx)
	if err != nil {
		slog.Error("realtime connect", "error", err)
		conn.Close()
		return
	}
	if err := s.cfg.Bridge.Serve(ctx, conn, vendor); err != nil {
		slog.Warn("call ended with error", "error", err)
		return
	}
	slog.Info("media stream closed", "remote", r.RemoteAddr)
}

func (s *Server) handleStreamAnswer(w http.ResponseWriter, r *http.Request) {
	if s.cfg.LLM == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "no language model configured"})
		return
	}
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "query is required"})
		return
	}

	started := time.Now()
	rc := http.NewResponseController(w)
	wrote := false
	for chunk, err := range s.cfg.LLM.Stream(r.Context(), query) {
		if err != nil {
			slog.Error("stream answer", "error", err)
			if !wrote {
				writeJSON(w, http.StatusBadGateway, map[string]string{"message": "language model request failed"})
			}
			return
		}
		if !wrote {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			wrote = true
		}
		if _, err := fmt.Fprint(w, chunk); err != nil {
			return
		}
		rc.Flush()
	}
	if !wrote {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
	slog.Info("stream answer", "duration", time.Since(started))
}
