package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/irtiza07/public-api/pkg/bridge"
	"github.com/irtiza07/public-api/pkg/cli"
	"github.com/irtiza07/public-api/pkg/httpapi"
	openairealtime "github.com/irtiza07/public-api/pkg/openai-realtime"
	"github.com/irtiza07/public-api/pkg/restaurant"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the Twilio phone agent",
	Long: `Run the HTTP server.

Routes:
  /debugger_app/*, /flight_tracker/*, /sql_query_builder/*   demo endpoints
  /twilio_restaurants/incoming-call   Twilio voice webhook (TwiML)
  /twilio_restaurants/media-stream    Twilio media stream (websocket)
  /langchain_stream_router/stream_answer?query=...   streamed LLM answer
  /metrics                            Prometheus metrics

Point the Twilio number's voice webhook at
https://<public-host>/twilio_restaurants/incoming-call.

Examples:
  publicapi serve --public-host abc.ngrok-free.app
  PUBLICAPI_ADDR=:9000 publicapi serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")
	serveCmd.Flags().String("public-host", "", "host Twilio uses to reach this server (default: request Host header)")
	serveCmd.Flags().String("realtime-model", openairealtime.ModelGPT4oRealtimePreview20241217, "realtime model for phone calls")
	serveCmd.Flags().String("voice", "", "assistant voice (default: context voice, then alloy)")
	serveCmd.Flags().Float64("temperature", 0.8, "sampling temperature for phone calls")
	serveCmd.Flags().Bool("metrics", true, "serve /metrics")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := settings.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	metrics := bridge.NewMetrics("")
	cfg := httpapi.Config{
		PublicHost: settings.GetString("public-host"),
	}
	if settings.GetBool("metrics") {
		cfg.Metrics = metrics.Handler()
		cfg.Requests = httpapi.NewRequestMetrics("", metrics.Registry())
	}

	octx, err := openAIContext()
	if err != nil {
		cli.PrintWarning("No API credentials (%v); phone agent and stream_answer are disabled", err)
	} else {
		voice := settings.GetString("voice")
		if voice == "" {
			voice = octx.Voice
		}
		handler := restaurant.NewHandler(restaurant.NewBook())
		cfg.Bridge = bridge.New(bridge.Config{
			Voice:        voice,
			Instructions: restaurant.Instructions,
			Temperature:  settings.GetFloat64("temperature"),
			Tools:        restaurant.Tools(),
		}, handler, metrics)

		client := createRealtimeClient(octx)
		model := settings.GetString("realtime-model")
		cfg.Dial = func(ctx context.Context) (bridge.Realtime, error) {
			session, err := client.ConnectWebSocket(ctx, &openairealtime.ConnectConfig{Model: model})
			if err != nil {
				return nil, err
			}
			return session, nil
		}

		answerer, err := createLLMClient(octx, "")
		if err != nil {
			return err
		}
		cfg.LLM = answerer
	}

	srv := httpapi.New(cfg).HTTPServer(settings.GetString("addr"))

	ctx, stop := signalContext()
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Hijacked media streams are not tracked by Shutdown; they end when
	// the process exits.
	return srv.Shutdown(shutdownCtx)
}
