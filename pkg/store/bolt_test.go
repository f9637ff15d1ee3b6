package store

import (
	"testing"
	"time"

	"github.com/nexusprime/fabric/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltStateStore_LoadEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBoltStateStore(dir)
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Nodes)
	assert.Empty(t, snap.Agents)
}

func TestBoltStateStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBoltStateStore(dir)
	require.NoError(t, err)
	defer s.Close()

	snap := &Snapshot{
		Nodes: map[string]*types.ComputeNode{
			"node-1": {ID: "node-1", NodeType: types.NodeTypePC, Status: types.NodeStatusOnline, LastSeen: time.Now().UTC()},
		},
		Agents: map[string]*types.AIAgent{
			"agent-1": {ID: "agent-1", Status: types.AgentStatusRunning, LastUpdated: time.Now().UTC()},
		},
	}
	require.NoError(t, s.Save(snap))

	reloaded, err := s.Load()
	require.NoError(t, err)
	require.Contains(t, reloaded.Nodes, "node-1")
	assert.Equal(t, types.NodeStatusOnline, reloaded.Nodes["node-1"].Status)
	require.Contains(t, reloaded.Agents, "agent-1")
	assert.Equal(t, types.AgentStatusRunning, reloaded.Agents["agent-1"].Status)
}

func TestBoltStateStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBoltStateStore(dir)
	require.NoError(t, err)

	snap := &Snapshot{
		Nodes:  map[string]*types.ComputeNode{"node-1": {ID: "node-1"}},
		Agents: map[string]*types.AIAgent{},
	}
	require.NoError(t, s.Save(snap))
	require.NoError(t, s.Close())

	s2, err := NewBoltStateStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	reloaded, err := s2.Load()
	require.NoError(t, err)
	assert.Contains(t, reloaded.Nodes, "node-1")
}
