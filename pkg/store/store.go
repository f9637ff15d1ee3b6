// Package store persists a full snapshot of the fabric registry to a
// single embedded bbolt database. The registry is always mutated as a
// whole unit under one lock, so the snapshot is stored as one
// JSON-encoded blob behind one key: simpler to reason about than a
// per-entity layout, and tolerant of field additions and removals
// since decoding ignores unknown fields and leaves missing ones at
// their zero value instead of failing.
package store

import (
	"github.com/nexusprime/fabric/pkg/types"
)

// Snapshot is the full persisted state of the fabric registry.
type Snapshot struct {
	Nodes  map[string]*types.ComputeNode
	Agents map[string]*types.AIAgent
}

// StateStore persists and reloads a Snapshot. Implementations must be
// safe for concurrent use.
type StateStore interface {
	// Load returns the most recently saved Snapshot, or an empty one if
	// nothing has ever been saved.
	Load() (*Snapshot, error)

	// Save overwrites the persisted Snapshot.
	Save(snap *Snapshot) error

	// Close releases the underlying database handle.
	Close() error
}
