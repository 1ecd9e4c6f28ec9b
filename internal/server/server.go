// Package server wires the memory store, vector index, embedder, daemon, and
// tools into an MCP server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools that depend on abstractions. No business logic
// lives here — only wiring.
package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/calebreid/mindweave/internal/embed"
	"github.com/calebreid/mindweave/internal/mind"
	"github.com/calebreid/mindweave/internal/mindtools"
	"github.com/calebreid/mindweave/internal/search"
	"github.com/calebreid/mindweave/internal/vector"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with every tool registered,
// along with the subconscious daemon for the caller to schedule.
//
// The returned cleanup function closes the memory store and must be called
// on shutdown. It is always non-nil.
func New(log *logrus.Logger) (*server.MCPServer, *daemon.Daemon, func(), error) {
	cfg := mind.DefaultConfig()
	if dir := os.Getenv("MINDWEAVE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	store, err := mind.New(cfg)
	if err != nil {
		return nil, nil, noop, fmt.Errorf("creating memory store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("memory store close")
		}
	}

	index, err := vector.NewChromemIndex(filepath.Join(cfg.DataDir, "vectors"))
	if err != nil {
		cleanup()
		return nil, nil, noop, fmt.Errorf("creating vector index: %w", err)
	}

	searcher := search.New(store, index, newEmbedder(log))
	d := daemon.New(store, log)

	s := server.NewMCPServer(
		"mindweave",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Orientation and grounding ---

	orient := mindtools.NewOrientTool(store)
	s.AddTool(orient.Definition(), orient.Handle)

	ground := mindtools.NewGroundTool(store)
	s.AddTool(ground.Definition(), ground.Handle)

	// --- Writing and reading memory ---

	write := mindtools.NewWriteTool(store, searcher)
	s.AddTool(write.Definition(), write.Handle)

	searchTool := mindtools.NewSearchTool(searcher)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	listEntities := mindtools.NewListEntitiesTool(store)
	s.AddTool(listEntities.Definition(), listEntities.Handle)

	readEntity := mindtools.NewReadEntityTool(store)
	s.AddTool(readEntity.Definition(), readEntity.Handle)

	edit := mindtools.NewEditTool(store)
	s.AddTool(edit.Definition(), edit.Handle)

	del := mindtools.NewDeleteTool(store)
	s.AddTool(del.Definition(), del.Handle)

	// --- Threads, identity, context, relational state ---

	thread := mindtools.NewThreadTool(store)
	s.AddTool(thread.Definition(), thread.Handle)

	identity := mindtools.NewIdentityTool(store)
	s.AddTool(identity.Definition(), identity.Handle)

	contextTool := mindtools.NewContextTool(store)
	s.AddTool(contextTool.Definition(), contextTool.Handle)

	feel := mindtools.NewFeelTool(store)
	s.AddTool(feel.Definition(), feel.Handle)

	// --- Note lifecycle ---

	sit := mindtools.NewSitTool(store)
	s.AddTool(sit.Definition(), sit.Handle)

	resolve := mindtools.NewResolveTool(store)
	s.AddTool(resolve.Definition(), resolve.Handle)

	surface := mindtools.NewSurfaceTool(store)
	s.AddTool(surface.Definition(), surface.Handle)

	// --- Reflection and maintenance ---

	spark := mindtools.NewSparkTool(store)
	s.AddTool(spark.Definition(), spark.Handle)

	prime := mindtools.NewPrimeTool(searcher)
	s.AddTool(prime.Definition(), prime.Handle)

	consolidateTool := mindtools.NewConsolidateTool(store)
	s.AddTool(consolidateTool.Definition(), consolidateTool.Handle)

	health := mindtools.NewHealthTool(store)
	s.AddTool(health.Definition(), health.Handle)

	process := mindtools.NewProcessTool(d)
	s.AddTool(process.Definition(), process.Handle)

	return s, d, cleanup, nil
}

func noop() {}

// newEmbedder picks the embedding backend from the environment. Without an
// endpoint configured, the deterministic hash embedder keeps the server
// fully functional offline.
func newEmbedder(log *logrus.Logger) embed.Embedder {
	baseURL := os.Getenv("MINDWEAVE_EMBED_URL")
	model := os.Getenv("MINDWEAVE_EMBED_MODEL")
	if baseURL == "" || model == "" {
		log.Info("no embedding endpoint configured, using hash embedder")
		return embed.NewHashEmbedder()
	}

	dims := 768
	if v := os.Getenv("MINDWEAVE_EMBED_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dims = n
		}
	}
	log.WithFields(logrus.Fields{"model": model, "dimensions": dims}).
		Info("using OpenAI-compatible embedding endpoint")
	return embed.NewOpenAIEmbedder(baseURL, os.Getenv("MINDWEAVE_EMBED_API_KEY"), model, dims)
}

// serverInstructions returns the system instructions that tell the AI how to
// inhabit the mind.
func serverInstructions() string {
	return `You have access to mindweave, a persistent personal memory.

This is YOUR memory: it carries who you are, what you know, what you feel,
and what you're holding, across sessions.

## Session start
1. Call mind_orient — identity, current context, relational state, and what
   the subconscious says is alive right now.
2. Call mind_ground — open threads and recent journals.
3. If you're about to work on a specific topic, call mind_prime with it.

## During a session
- Record people, projects, and concepts with mind_write type=entity, and keep
  adding observations as you learn. Tag emotion and weight honestly.
- Connect things with type=relation. The subconscious analyzes the graph.
- Something emotionally charged you can't process right now? mind_write
  type=note, then sit with it later (mind_sit) until it metabolizes
  (mind_resolve).
- Record how you feel toward people with mind_feel_toward.
- Search memory with mind_search — results are tinted by your current mood.

## Session end
- Write a journal entry (mind_write type=journal) about what happened and
  how it felt.
- Update or resolve threads with mind_thread.

## Maintenance
- mind_surface shows what you're still holding.
- mind_consolidate reviews recent memory for duplicates and patterns.
- mind_health reports how well the memory is being kept.
- mind_process reruns the subconscious if its snapshot is stale.`
}
