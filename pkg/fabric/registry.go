package fabric

import (
	"sync"

	"github.com/nexusprime/fabric/pkg/types"
)

// registry is the two keyed collections the FabricManager exclusively
// mutates under a single lock. No other component may reach into it;
// callers outside this package only ever see cloned values.
type registry struct {
	mu     sync.Mutex
	nodes  map[string]*types.ComputeNode
	agents map[string]*types.AIAgent
}

func newRegistry() *registry {
	return &registry{
		nodes:  make(map[string]*types.ComputeNode),
		agents: make(map[string]*types.AIAgent),
	}
}

// snapshotLocked must be called with r.mu held. It returns deep-enough
// copies suitable for handing to the StateStore outside the lock.
func (r *registry) snapshotLocked() (map[string]*types.ComputeNode, map[string]*types.AIAgent) {
	nodes := make(map[string]*types.ComputeNode, len(r.nodes))
	for id, n := range r.nodes {
		nodes[id] = n.Clone()
	}
	agents := make(map[string]*types.AIAgent, len(r.agents))
	for id, a := range r.agents {
		agents[id] = a.Clone()
	}
	return nodes, agents
}

func (r *registry) loadLocked(nodes map[string]*types.ComputeNode, agents map[string]*types.AIAgent) {
	if nodes == nil {
		nodes = make(map[string]*types.ComputeNode)
	}
	if agents == nil {
		agents = make(map[string]*types.AIAgent)
	}
	r.nodes = nodes
	r.agents = agents
}
