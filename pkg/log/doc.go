/*
Package log provides structured logging for the fabric control plane using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging with
component-specific loggers, configurable log levels, and helper functions for
common logging patterns. All logs include timestamps and support filtering by
severity level for production debugging.

# Architecture

The fabric's logging system provides structured JSON logging with minimal overhead:

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("fabric")                  │          │
	│  │  - WithNodeID("node-abc123")                │          │
	│  │  - WithAgentID("agent-xyz789")              │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Log Output                       │          │
	│  │                                              │          │
	│  │  JSON Format:                               │          │
	│  │  {                                           │          │
	│  │    "level": "info",                         │          │
	│  │    "component": "fabric",                   │          │
	│  │    "time": "2026-07-29T10:30:00Z",          │          │
	│  │    "message": "node registered"              │          │
	│  │  }                                           │          │
	│  │                                              │          │
	│  │  Console Format:                            │          │
	│  │  2026-07-29T10:30:00Z INF node registered   │          │
	│  │      component=fabric                        │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all fabric packages
  - Thread-safe concurrent writes

Log Levels:
  - Debug: Detailed debugging information
  - Info: General informational messages
  - Warn: Warning messages (potential issues)
  - Error: Error messages (operation failed)
  - Fatal: Critical errors (process exits)

Configuration:
  - Level: Filter messages below threshold
  - JSONOutput: JSON vs human-readable console
  - Output: io.Writer for log destination (stdout, file)

Context Loggers:
  - WithComponent: Add component name to all logs
  - WithNodeID: Add node ID context
  - WithAgentID: Add agent ID context

# Log Levels

Debug Level:
  - Purpose: Detailed debugging information
  - Usage: Development and troubleshooting
  - Performance: Verbose, may impact production
  - Example: "Evaluating deploy preconditions for node-abc123"

Info Level:
  - Purpose: General informational messages
  - Usage: Default production level
  - Performance: Moderate volume
  - Example: "Agent registered: agent-xyz789 (Synthesizer)"

Warn Level:
  - Purpose: Potential issues or unexpected conditions
  - Usage: Situations that may require attention
  - Performance: Low volume
  - Example: "Status update for unknown node node-missing"

Error Level:
  - Purpose: Operation failures that need investigation
  - Usage: Failed operations, exceptions
  - Performance: Low volume
  - Example: "Deploy RPC failed: connection refused"

Fatal Level:
  - Purpose: Critical errors causing process termination
  - Usage: Unrecoverable errors only
  - Behavior: Logs message and exits process (os.Exit(1))
  - Example: "Failed to open state store: %v"

# Usage

Initializing the Logger:

	import "github.com/nexusprime/fabric/pkg/log"

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stdout,
	})

	// Custom output (file)
	file, _ := os.OpenFile("/var/log/fabricd.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     file,
	})

Simple Logging:

	log.Info("Fabric manager initialized successfully")
	log.Debug("Checking node status")
	log.Warn("Reaper cycle ran long")
	log.Error("Failed to dial node proxy")
	log.Fatal("Cannot start without state store") // Exits process

Structured Logging:

	log.Logger.Info().
		Str("node_id", "node-abc").
		Int("agent_count", 3).
		Msg("Node registered")

	log.Logger.Error().
		Err(err).
		Str("agent_id", "agent-xyz").
		Msg("Deploy RPC failed")

Component Loggers:

	// Create component-specific logger
	fabricLog := log.WithComponent("fabric")
	fabricLog.Info().Msg("Starting fabric manager")
	fabricLog.Debug().Str("node_id", "node-abc").Msg("Registering node")

	// Multiple context fields
	reaperLog := log.WithComponent("reaper").
		With().Str("node_id", "node-abc").Logger()
	reaperLog.Info().Msg("Pruning stale entities")
	reaperLog.Error().Err(err).Msg("Prune cycle failed")

Context Logger Helpers:

	// Node-specific logs
	nodeLog := log.WithNodeID("node-abc123")
	nodeLog.Info().Msg("Node joined fabric")

	// Agent-specific logs
	agentLog := log.WithAgentID("agent-xyz789")
	agentLog.Info().Msg("Agent deployed")

Complete Example:

	package main

	import (
		"errors"
		"os"

		"github.com/nexusprime/fabric/pkg/log"
	)

	func main() {
		// Initialize logger
		log.Init(log.Config{
			Level:      log.InfoLevel,
			JSONOutput: true,
			Output:     os.Stdout,
		})

		log.Info("fabricd starting")

		// Component-specific logging
		fabricLog := log.WithComponent("fabric")
		fabricLog.Info().
			Str("node_id", "node-1").
			Int("agent_count", 5).
			Msg("Node registered")

		// Error logging
		err := errors.New("connection refused")
		log.Logger.Error().
			Err(err).
			Str("component", "nodeproxy").
			Msg("Failed to dial node proxy")

		log.Info("fabricd stopped")
	}

# Integration Points

This package integrates with:

  - pkg/fabric: Logs registry mutations and reconciliation
  - pkg/reaper: Logs staleness prune cycles
  - pkg/nodeproxy: Logs outbound RPC dial/call failures
  - pkg/store: Logs snapshot persistence failures
  - cmd/fabricd: Logs process startup and shutdown

# Log Output Examples

JSON Format (Production):

	{"level":"info","component":"fabric","time":"2026-07-29T10:30:00Z","message":"Node registered: node-abc"}
	{"level":"info","component":"reaper","time":"2026-07-29T10:30:01Z","message":"Pruned 1 stale node"}
	{"level":"error","component":"nodeproxy","node_id":"node-abc","error":"connection refused","time":"2026-07-29T10:30:02Z","message":"Deploy RPC failed"}

Console Format (Development):

	2026-07-29T10:30:00Z INF Node registered: node-abc component=fabric
	2026-07-29T10:30:01Z INF Pruned 1 stale node component=reaper
	2026-07-29T10:30:02Z ERR Deploy RPC failed error="connection refused" component=nodeproxy node_id=node-abc

# Design Patterns

Global Logger Pattern:
  - Single package-level Logger instance
  - Initialized once at application start
  - Accessible from all packages without passing
  - Simplifies logging in deeply nested calls

Context Logger Pattern:
  - Create child loggers with context fields
  - Pass context loggers to functions
  - Automatically includes context in all logs
  - Avoids repetitive field specification

Structured Logging Pattern:
  - Use typed fields (.Str, .Int, .Err)
  - Enables log aggregation and querying
  - Better than string concatenation
  - Parseable by log analysis tools

Error Logging Pattern:
  - Always use .Err(err) for error objects
  - Provides stack trace information
  - Enables error tracking and alerting
  - Consistent error format across codebase

# Security

Log Content:
  - Never log secrets or sensitive data
  - Redact tokens, passwords, API keys
  - Review logs before sharing externally

Log Injection:
  - Use structured logging (prevents injection)
  - Never concatenate user input into log messages
  - Use typed fields (.Str, .Int) for user data

# Best Practices

Do:
  - Use Info level for production
  - Use structured fields for queryable data
  - Create component-specific loggers
  - Log errors with .Err() for stack traces
  - Include context (node ID, agent ID)

Don't:
  - Log sensitive data (secrets, passwords)
  - Use Debug level in production
  - Log in tight loops (use sampling)
  - Concatenate strings (use .Str, .Int)

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - Structured logging: https://www.thoughtworks.com/radar/techniques/structured-logging
*/
package log
