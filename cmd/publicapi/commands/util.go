package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/irtiza07/public-api/pkg/cli"
	"github.com/irtiza07/public-api/pkg/kv"
	"github.com/irtiza07/public-api/pkg/llm"
	openairealtime "github.com/irtiza07/public-api/pkg/openai-realtime"
	"github.com/irtiza07/public-api/pkg/storage"
	"github.com/irtiza07/public-api/pkg/todo"
)

// openAIContext returns the credentials to use: the selected context, or
// OPENAI_API_KEY when no context is configured and -c was not given.
func openAIContext() (*cli.Context, error) {
	ctx, err := getContext()
	if err == nil {
		return ctx, nil
	}
	if contextName == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			printVerbose("Using OPENAI_API_KEY from the environment")
			return &cli.Context{Name: "env", APIKey: key}, nil
		}
	}
	return nil, err
}

// createRealtimeClient creates a realtime client from context configuration.
func createRealtimeClient(ctx *cli.Context) *openairealtime.Client {
	var opts []openairealtime.Option
	if org := ctx.GetExtra("organization"); org != "" {
		opts = append(opts, openairealtime.WithOrganization(org))
	}
	if project := ctx.GetExtra("project"); project != "" {
		opts = append(opts, openairealtime.WithProject(project))
	}
	if u := ctx.GetExtra("realtime_url"); u != "" {
		opts = append(opts, openairealtime.WithWebSocketURL(u))
	}
	return openairealtime.NewClient(ctx.APIKey, opts...)
}

func createLLMClient(ctx *cli.Context, system string) (*llm.Client, error) {
	return llm.New(llm.Config{
		APIKey:  ctx.APIKey,
		BaseURL: ctx.BaseURL,
		Model:   ctx.GetExtra("chat_model"),
		System:  system,
	})
}

// dataDir is --data-dir, or "data" next to the config file.
func dataDir() (string, error) {
	if dir := settings.GetString("data-dir"); dir != "" {
		return dir, nil
	}
	cfg, err := getConfig()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Dir(), "data"), nil
}

// openKV opens the badger database under the data dir. Badger holds a
// directory lock, so only one process can have it open.
func openKV() (*kv.Badger, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	printVerbose("Opening KV store at %s", filepath.Join(dir, "kv"))
	return kv.NewBadger(kv.BadgerOptions{Dir: filepath.Join(dir, "kv")})
}

// openFileStore returns the S3 bucket when --s3-bucket is set and the data
// dir otherwise.
func openFileStore() (storage.FileStore, error) {
	if bucket := settings.GetString("s3-bucket"); bucket != "" {
		client := storage.NewS3Client(storage.S3Config{
			Region:    settings.GetString("s3-region"),
			Endpoint:  settings.GetString("s3-endpoint"),
			AccessKey: settings.GetString("s3-access-key"),
			SecretKey: settings.GetString("s3-secret-key"),
			PathStyle: settings.GetBool("s3-path-style"),
		})
		printVerbose("Using s3://%s/%s", bucket, settings.GetString("s3-prefix"))
		return storage.NewS3(client, bucket, settings.GetString("s3-prefix")), nil
	}
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	local, err := storage.NewLocal(dir)
	if err != nil {
		return nil, err
	}
	return local, nil
}

// openTodoStore opens the configured TODO backend. The returned func
// releases it.
func openTodoStore() (todo.Store, func(), error) {
	switch backend := settings.GetString("todo-backend"); backend {
	case "csv", "":
		fs, err := openFileStore()
		if err != nil {
			return nil, nil, err
		}
		return todo.NewCSVStore(fs, settings.GetString("todo-file")), func() {}, nil
	case "kv":
		db, err := openKV()
		if err != nil {
			return nil, nil, err
		}
		return todo.NewKVStore(db, todo.DefaultKVPrefix), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown todo backend %q (want csv or kv)", backend)
	}
}

// signalContext is canceled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
