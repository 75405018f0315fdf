// Package main provides the publicapi CLI.
//
// Usage:
//
//	publicapi [flags] <command> [args]
//
// Commands:
//
//	serve     - HTTP server: demo routes, Twilio voice agent, streamed answers
//	realtime  - console restaurant agent over the realtime API
//	chat      - console LLM chat with a stored conversation log
//	todo      - manage TODO items, or serve them over MCP
//	config    - configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.publicapi/publicapi/
//	Use 'publicapi config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/irtiza07/public-api/cmd/publicapi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
