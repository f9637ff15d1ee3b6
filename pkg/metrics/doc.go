/*
Package metrics provides Prometheus metrics collection and exposition for the
fabric control plane.

The metrics package defines and registers all fabric metrics using the
Prometheus client library, providing observability into node/agent counts,
mutation throughput, outbound RPC latency, snapshot health, event bus drops,
and reaper cycle behavior. Metrics are exposed via an HTTP endpoint for
scraping by Prometheus servers.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Metric Types                   │          │
	│  │                                              │          │
	│  │  Gauge: Instant values (node/agent count)   │          │
	│  │  Counter: Monotonic increases (mutations)   │          │
	│  │  Histogram: Distributions (RPC/snapshot     │          │
	│  │             latency)                        │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Metric Categories                 │          │
	│  │                                              │          │
	│  │  Registry: Nodes, agents by status          │          │
	│  │  Mutations: Accepted ops, rejections        │          │
	│  │  Outbound RPC: Duration by method/outcome   │          │
	│  │  Persistence: Snapshot duration, failures   │          │
	│  │  Events: Published/dropped by bus           │          │
	│  │  Reaper: Cycle duration, pruned entities    │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint               │          │
	│  │  - Path: /metrics                           │          │
	│  │  - Format: Prometheus text exposition       │          │
	│  │  - Handler: promhttp.Handler()              │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Metric Registry:
  - Global Prometheus DefaultRegistry
  - All metrics registered at package init
  - Thread-safe for concurrent updates

Timer Helper:
  - Convenience wrapper for timing operations
  - Start timer, observe duration to histogram
  - Supports label values for histogram vectors

# Metrics Catalog

fabric_nodes_total{status}:
  - Type: Gauge
  - Description: Total registered compute nodes by status
  - Example: fabric_nodes_total{status="Online"} 5

fabric_agents_total{status}:
  - Type: Gauge
  - Description: Total registered agents by status
  - Example: fabric_agents_total{status="Running"} 12

fabric_mutations_total{operation}:
  - Type: Counter
  - Description: Total accepted FabricManager mutations by operation
  - Example: fabric_mutations_total{operation="deploy_agent"} 40

fabric_precondition_rejections_total{operation}:
  - Type: Counter
  - Description: Total operations aborted on precondition failure
  - Example: fabric_precondition_rejections_total{operation="deploy_agent"} 3

fabric_outbound_rpc_duration_seconds{method, outcome}:
  - Type: Histogram
  - Description: Duration of outbound node-proxy RPCs
  - Labels: method, outcome (success/failure)

fabric_snapshot_duration_seconds:
  - Type: Histogram
  - Description: Time taken to persist a registry snapshot

fabric_snapshot_failures_total:
  - Type: Counter
  - Description: Total failed snapshot writes (logged and continued)

fabric_events_dropped_total{bus}:
  - Type: Counter
  - Description: Total events dropped due to subscriber lag or absence
  - Labels: bus (internal/wire)

fabric_events_published_total{event_type}:
  - Type: Counter
  - Description: Total events published by type

fabric_reconciliation_duration_seconds:
  - Type: Histogram
  - Description: Time taken for a reaper prune cycle

fabric_reconciliation_cycles_total:
  - Type: Counter
  - Description: Total reaper prune cycles completed

fabric_pruned_entities_total{entity}:
  - Type: Counter
  - Description: Total entities removed by the reaper
  - Labels: entity (node/agent)

# Usage

Updating Gauge Metrics:

	import "github.com/nexusprime/fabric/pkg/metrics"

	metrics.NodesTotal.WithLabelValues("Online").Set(5)

Updating Counter Metrics:

	metrics.MutationsTotal.WithLabelValues("register_node").Inc()
	metrics.PrunedEntitiesTotal.WithLabelValues("node").Add(2)

Recording Histogram Observations:

	timer := metrics.NewTimer()
	// ... perform operation ...
	timer.ObserveDuration(metrics.SnapshotDuration)

Using Timer with Labels:

	timer := metrics.NewTimer()
	// ... perform outbound RPC ...
	timer.ObserveDurationVec(metrics.OutboundRPCDuration, "DeployAgent", "success")

Complete Example:

	package main

	import (
		"net/http"

		"github.com/nexusprime/fabric/pkg/metrics"
	)

	func main() {
		metrics.NodesTotal.WithLabelValues("Online").Set(3)
		metrics.AgentsTotal.WithLabelValues("Running").Set(12)

		http.Handle("/metrics", metrics.Handler())
		http.ListenAndServe(":9090", nil)
	}

# Integration Points

This package integrates with:

  - pkg/fabric: Updates registry gauges, mutation/rejection counters, snapshot
    and outbound RPC histograms
  - pkg/reaper: Tracks reconciliation cycle duration and pruned entity counts
  - Prometheus: Scrapes /metrics endpoint

# Design Patterns

Package Init Registration:
  - All metrics registered in init() function
  - MustRegister panics on duplicate registration

Label Discipline:
  - Use WithLabelValues for cardinality-bounded labels (status, operation,
    outcome, entity) — never node/agent IDs

Timer Pattern:
  - Create timer at operation start
  - Call ObserveDuration/ObserveDurationVec when the operation completes

# See Also

  - Prometheus documentation: https://prometheus.io/docs/
  - Prometheus client library: https://github.com/prometheus/client_golang
  - Histogram best practices: https://prometheus.io/docs/practices/histograms/
*/
package metrics
