package fabric

import (
	"testing"

	"github.com/nexusprime/fabric/pkg/nodeproxy"
	"github.com/nexusprime/fabric/pkg/store"
	"github.com/nexusprime/fabric/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S6 — Restart persistence.
func TestScenario_RestartPersistence(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewBoltStateStore(dir)
	require.NoError(t, err)
	defer st.Close()

	pool := nodeproxy.NewPoolWithDialer(func(addr string) (nodeproxy.Client, error) {
		return &fakeNodeClient{}, nil
	})

	m := NewManager(pool, st)
	m.RegisterNode(&types.ComputeNode{ID: "node-A"})
	m.UpdateNodeStatus("node-A", types.NodeStatusOnline, nil)

	// Simulate restart: a fresh Manager against the same store, with no
	// events replayed to it.
	restarted := NewManager(pool, st)
	sub := restarted.SubscribeWire()
	defer restarted.UnsubscribeWire(sub)
	require.NoError(t, restarted.LoadFromStore())

	select {
	case ev := <-sub.Events:
		t.Fatalf("expected no replayed events, got %+v", ev)
	default:
	}

	node, ok := restarted.Node("node-A")
	require.True(t, ok)
	assert.Equal(t, types.NodeStatusOnline, node.Status)
}

// P1: the in-memory registry equals the decoded persisted state after
// any quiescent point.
func TestInvariant_RegistryMatchesPersistedState(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewBoltStateStore(dir)
	require.NoError(t, err)
	defer st.Close()

	pool := nodeproxy.NewPoolWithDialer(func(addr string) (nodeproxy.Client, error) {
		return &fakeNodeClient{}, nil
	})
	m := NewManager(pool, st)
	m.RegisterNode(&types.ComputeNode{ID: "node-1"})
	m.RegisterAIAgent(&types.AIAgent{ID: "agent-1"})

	snap, err := st.Load()
	require.NoError(t, err)
	assert.Contains(t, snap.Nodes, "node-1")
	assert.Contains(t, snap.Agents, "agent-1")
	assert.Equal(t, len(m.Nodes()), len(snap.Nodes))
	assert.Equal(t, len(m.Agents()), len(snap.Agents))
}
