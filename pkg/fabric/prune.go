package fabric

import (
	"time"

	"github.com/nexusprime/fabric/pkg/events"
	"github.com/nexusprime/fabric/pkg/metrics"
)

// PruneStaleEntities is the reaper body: it removes nodes that have
// gone longer than NodeStaleThreshold without an accepted status
// update, then agents that have gone longer than AgentStaleThreshold
// without an accepted status-affecting mutation. Agent staleness is
// judged against AIAgent.LastUpdated, refreshed by every mutation that
// touches an agent's status, task, or assignment.
func (m *Manager) PruneStaleEntities() {
	timer := metrics.NewTimer()
	now := time.Now().UTC()

	var prunedNodes, prunedAgents []string

	m.reg.mu.Lock()
	for id, n := range m.reg.nodes {
		if now.Sub(n.LastSeen) > NodeStaleThreshold {
			prunedNodes = append(prunedNodes, id)
		}
	}
	for _, id := range prunedNodes {
		delete(m.reg.nodes, id)
	}

	for id, a := range m.reg.agents {
		if now.Sub(a.LastUpdated) > AgentStaleThreshold {
			prunedAgents = append(prunedAgents, id)
		}
	}
	for _, id := range prunedAgents {
		delete(m.reg.agents, id)
	}
	changed := len(prunedNodes) > 0 || len(prunedAgents) > 0
	m.reg.mu.Unlock()

	for _, id := range prunedNodes {
		m.publish(events.NodePruned{NodeID: id})
	}
	for _, id := range prunedAgents {
		m.publish(events.AgentPruned{AgentID: id})
	}

	if len(prunedNodes) > 0 {
		metrics.PrunedEntitiesTotal.WithLabelValues("node").Add(float64(len(prunedNodes)))
	}
	if len(prunedAgents) > 0 {
		metrics.PrunedEntitiesTotal.WithLabelValues("agent").Add(float64(len(prunedAgents)))
	}

	if changed {
		m.snapshot()
		m.updateGauges()
	}

	timer.ObserveDuration(metrics.ReconciliationDuration)
	metrics.ReconciliationCyclesTotal.Inc()
}
