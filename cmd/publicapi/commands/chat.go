package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/irtiza07/public-api/pkg/chatlog"
	"github.com/irtiza07/public-api/pkg/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the LLM and keep a conversation log",
	Long: `Ask questions in a loop. Every question and answer is stored under
conversation:<id> in the local KV store.

Examples:
  publicapi chat
  publicapi chat --conversation 0b6f...   # continue a conversation
  publicapi chat history                  # list conversations
  publicapi chat history 0b6f...`,
	RunE: runChat,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history [conversation-id]",
	Short: "List conversations, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openKV()
		if err != nil {
			return err
		}
		defer db.Close()
		log := chatlog.New(db)

		if len(args) == 0 {
			ids, err := log.Conversations(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("No conversations stored")
				return nil
			}
			return outputResult(ids, "")
		}

		entries, err := log.History(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("conversation %s not found", args[0])
		}
		return outputResult(entries, "")
	},
}

func init() {
	chatCmd.Flags().String("conversation", "", "conversation id to continue (default: a new one)")
	chatCmd.Flags().String("system", "", "system prompt")
	chatCmd.AddCommand(chatHistoryCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	octx, err := openAIContext()
	if err != nil {
		return err
	}
	system, _ := cmd.Flags().GetString("system")
	client, err := createLLMClient(octx, system)
	if err != nil {
		return err
	}

	db, err := openKV()
	if err != nil {
		return err
	}
	defer db.Close()
	recorder := chatlog.NewRecorder(chatlog.New(db), 16)
	// Runs before db.Close so queued entries are stored.
	defer recorder.Close()

	id, _ := cmd.Flags().GetString("conversation")
	if id == "" {
		id = chatlog.NewConversationID()
	}
	cli.PrintInfo("Conversation %s (model %s)", id, client.Model())

	rl, err := readline.NewEx(&readline.Config{Prompt: "Enter your prompt: "})
	if err != nil {
		return err
	}
	defer rl.Close()

	ctx, stop := signalContext()
	defer stop()

	out := cmd.OutOrStdout()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if q := strings.ToLower(question); q == "exit" || q == "quit" {
			return nil
		}

		answer, err := client.Answer(ctx, question)
		if err != nil {
			cli.PrintError("%v", err)
			continue
		}
		fmt.Fprintln(out, answer)

		err = recorder.Record(ctx, chatlog.Record{
			ConversationID: id,
			Entry:          chatlog.Entry{Question: question, Answer: answer, Time: time.Now()},
		})
		if err != nil {
			return err
		}
		printVerbose("Stored under conversation:%s", id)
	}
}
