// Weave: project artifact relationship tracker.
//
// An MCP server that stores projects, PRDs, designs, tasks, tests,
// and documents in a local SQLite database, links them explicitly or
// via foreign keys, and serves a derived relationship graph with
// progress statistics.
//
// Usage:
//
//	weave serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	weaveserver "github.com/atelier-tools/weave/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("weave v%s\n", weaveserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := weaveserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// ServeStdio installs its own SIGINT/SIGTERM handling and returns
	// on shutdown, so cleanup runs on both EOF and signal.
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Weave v%s — project artifact relationship tracker (MCP server)

Usage:
  weave serve    Start the MCP server (stdio transport)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "weave": {
        "command": "weave",
        "args": ["serve"]
      }
    }
  }
`, weaveserver.Version)
}
