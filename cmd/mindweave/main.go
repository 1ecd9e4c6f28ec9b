// mindweave: a personal memory MCP server with a subconscious daemon.
//
// It stores entities, observations, relations, journals, threads, and
// emotionally charged notes in SQLite, indexes memories in an embedded
// vector store, and runs an hourly background pass that scores what's warm,
// detects the current mood, and analyzes the relation graph.
//
// Usage:
//
//	mindweave serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	mindserver "github.com/calebreid/mindweave/internal/server"
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
		fmt.Printf("mindweave v%s\n", mindserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// All logging goes to stderr; stdout carries the MCP stdio transport.
	log := logrus.New()
	log.SetOutput(os.Stderr)

	s, d, cleanup, err := mindserver.New(log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// First subconscious pass at startup so orientation has a snapshot,
	// then hourly.
	go func() {
		if _, err := d.Run(ctx); err != nil {
			log.WithError(err).Error("initial subconscious run failed")
		}
	}()
	scheduler, err := d.Schedule(ctx)
	if err != nil {
		return fmt.Errorf("starting daemon: %w", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.WithError(err).Warn("scheduler shutdown")
		}
	}()

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `mindweave v%s — personal memory MCP server

Usage:
  mindweave serve    Start the MCP server (stdio transport)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "mindweave": {
        "command": "mindweave",
        "args": ["serve"]
      }
    }
  }

Environment:
  MINDWEAVE_DATA_DIR           Data directory (default: ~/.mindweave)
  MINDWEAVE_EMBED_URL          OpenAI-compatible embeddings base URL
  MINDWEAVE_EMBED_MODEL        Embedding model name
  MINDWEAVE_EMBED_API_KEY      API key for the embedding endpoint
  MINDWEAVE_EMBED_DIMENSIONS   Embedding width (default: 768)
`, mindserver.Version)
}
