// Package cli holds the pieces shared by the publicapi subcommands.
//
// It covers:
//   - per-app configuration with named contexts (~/.publicapi/<app>/config.yaml)
//   - result output as YAML or JSON, optionally filtered through a jq query
//   - loading request files (YAML or JSON)
//   - styled terminal print helpers
//
// Example:
//
//	cfg, err := cli.LoadConfig("openai")
//	ctx, err := cfg.ResolveContext("")
//	cli.Output(items, cli.OutputOptions{Format: cli.FormatJSON, Query: ".[].name"})
package cli
