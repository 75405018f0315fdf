package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/irtiza07/public-api/pkg/audio/playback"
	"github.com/irtiza07/public-api/pkg/audio/portaudio"
	"github.com/irtiza07/public-api/pkg/cli"
	openairealtime "github.com/irtiza07/public-api/pkg/openai-realtime"
	"github.com/irtiza07/public-api/pkg/realtimechat"
	"github.com/irtiza07/public-api/pkg/restaurant"
)

// RealtimeChatConfig is the configuration for the realtime command.
// This can be loaded from a YAML or JSON file using -f flag.
type RealtimeChatConfig struct {
	// Model defaults to gpt-4o-realtime-preview-2024-12-17.
	Model string `yaml:"model" json:"model"`

	// Voice defaults to the context voice. Empty keeps the server default.
	Voice string `yaml:"voice" json:"voice"`

	// Instructions replaces the restaurant persona.
	Instructions string `yaml:"instructions" json:"instructions"`

	// FramesPerBuffer sizes the speaker buffer. Default: 1024.
	FramesPerBuffer int `yaml:"frames_per_buffer" json:"frames_per_buffer"`
}

var realtimeCmd = &cobra.Command{
	Use:   "realtime",
	Short: "Talk to the restaurant agent from the terminal",
	Long: `Start a console conversation with the reservation agent.

Type a message and press enter; the reply is spoken through the default
output device. Typing while the agent is still talking interrupts it.
Type 'exit' or 'quit' to leave.

Examples:
  publicapi realtime
  publicapi -c myctx realtime -f realtime.yaml`,
	RunE: runRealtime,
}

func runRealtime(cmd *cobra.Command, args []string) error {
	octx, err := openAIContext()
	if err != nil {
		return err
	}

	conf := &RealtimeChatConfig{
		Model:           openairealtime.ModelGPT4oRealtimePreview20241217,
		Voice:           octx.Voice,
		Instructions:    restaurant.Instructions,
		FramesPerBuffer: 1024,
	}
	if inputFile != "" {
		if err := cli.LoadRequest(inputFile, conf); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	defer portaudio.Terminate()
	if name, err := portaudio.DefaultOutputName(); err == nil {
		printVerbose("Audio output: %s", name)
	}

	ctx, stop := signalContext()
	defer stop()

	session, err := createRealtimeClient(octx).ConnectWebSocket(ctx, &openairealtime.ConnectConfig{Model: conf.Model})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	cli.PrintSuccess("Connected to server.")

	player := playback.NewPlayer(func() (playback.Sink, error) {
		out, err := portaudio.OpenOutput(openairealtime.PCM16SampleRate, 1, conf.FramesPerBuffer)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
	agent := realtimechat.New(realtimechat.Config{
		Instructions: conf.Instructions,
		Voice:        conf.Voice,
		Tools:        restaurant.Tools(),
	}, session, player, restaurant.NewHandler(restaurant.NewBook()), cmd.OutOrStdout())
	defer agent.Close()

	if err := agent.Start(); err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() { runErr <- agent.Run(ctx) }()

	rl, err := readline.NewEx(&readline.Config{Prompt: ">>> "})
	if err != nil {
		return err
	}
	defer rl.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					slog.Warn("read input", "error", err)
				}
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case err := <-runErr:
			if err != nil {
				return err
			}
			cli.PrintInfo("Session closed")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch strings.ToLower(line) {
			case "exit", "quit":
				fmt.Fprintln(cmd.OutOrStdout(), "Goodbye!")
				return nil
			}
			if err := agent.Send(line); err != nil {
				return err
			}
		}
	}
}
