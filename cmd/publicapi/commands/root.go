package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/irtiza07/public-api/pkg/cli"
)

const appName = "publicapi"

var (
	// Global flags
	cfgFile     string
	contextName string
	inputFile   string
	outputJSON  bool
	verbose     bool

	globalConfig *cli.Config

	// settings holds flag values with PUBLICAPI_* environment overrides.
	settings = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "publicapi",
	Short: "Voice agent, TODO manager and demo API server",
	Long: `publicapi bundles a Twilio phone agent for restaurant reservations, a
console version of the same agent, a TODO manager with an MCP server, and a
small HTTP API.

Configuration is stored in ~/.publicapi/publicapi/ and supports multiple
contexts holding API keys and defaults. Every flag can also be set through a
PUBLICAPI_<FLAG> environment variable (dashes become underscores).

Examples:
  # Set up a context with an OpenAI key
  publicapi config add-context openai --api-key sk-xxx
  publicapi config use-context openai

  # Serve the HTTP API and the phone agent
  publicapi serve --public-host abc.ngrok-free.app

  # Talk to the agent from the terminal
  publicapi realtime

  # Manage TODOs
  publicapi todo add "Buy milk" --priority high
  publicapi todo list --jq '.[].name'
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.publicapi/publicapi/config.yaml)")
	pf.StringVarP(&contextName, "context", "c", "", "context name to use")
	pf.StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON)")
	pf.BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Backends shared by serve, chat and todo.
	pf.String("data-dir", "", "directory for local data (default: <config dir>/data)")
	pf.String("todo-backend", "csv", "TODO store: csv or kv")
	pf.String("todo-file", "todos.csv", "CSV file name inside the data dir or bucket")
	pf.String("s3-bucket", "", "keep the TODO CSV file in this S3 bucket instead of the data dir")
	pf.String("s3-prefix", "", "key prefix inside the S3 bucket")
	pf.String("s3-region", "us-east-1", "S3 region")
	pf.String("s3-endpoint", "", "S3-compatible endpoint URL (empty for AWS)")
	pf.String("s3-access-key", "", "S3 access key")
	pf.String("s3-secret-key", "", "S3 secret key")
	pf.Bool("s3-path-style", false, "use path-style S3 addressing")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(realtimeCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(todoCmd)
}

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	settings.SetEnvPrefix("PUBLICAPI")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	if err := settings.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: bind flags: %v\n", err)
	}

	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		// Non-config commands still work without a readable config.
		fmt.Fprintf(os.Stderr, "Warning: %s config: %v\n", appName, err)
	}
}

func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// getContext returns the context selected by -c or the current context.
func getContext() (*cli.Context, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'publicapi config use-context'")
		}
		return nil, err
	}
	return ctx, nil
}

func outputResult(result any, query string) error {
	format := cli.FormatYAML
	if outputJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		Query:  query,
	})
}

func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
