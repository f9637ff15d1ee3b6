package fabric

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nexusprime/fabric/pkg/events"
	"github.com/nexusprime/fabric/pkg/log"
	"github.com/nexusprime/fabric/pkg/metrics"
	"github.com/nexusprime/fabric/pkg/nodeproxy"
	"github.com/nexusprime/fabric/pkg/store"
	"github.com/nexusprime/fabric/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// NodeStaleThreshold is how long a node may go without an accepted
	// status update before the reaper considers it gone.
	NodeStaleThreshold = 5 * time.Minute

	// AgentStaleThreshold is how long an agent may go without an
	// accepted status-affecting mutation before the reaper considers it
	// gone.
	AgentStaleThreshold = 10 * time.Minute

	// ReapInterval is the default period between reaper ticks.
	ReapInterval = 5 * time.Minute
)

// Manager is the FabricManager: the sole mutator of the registry, the
// sole producer on both event buses, and the orchestrator of outbound
// RPCs dispatched through the node client pool.
type Manager struct {
	reg     *registry
	clients *nodeproxy.Pool
	store   store.StateStore
	logger  zerolog.Logger

	internal *events.Broker[events.InternalEvent]
	wire     *events.Broker[events.WireEvent]

	// commandCh, if set via WithCommandChannel, receives every issued
	// Command for an external ingest worker to drain. Send is
	// non-blocking: a full or absent channel only drops the hand-off,
	// it never stalls IssueCommand.
	commandCh chan<- types.Command
}

// NewManager wires a FabricManager against its collaborators. st may
// be nil, in which case snapshots are skipped entirely (used by tests
// that only care about registry/event behavior).
func NewManager(clients *nodeproxy.Pool, st store.StateStore) *Manager {
	return &Manager{
		reg:      newRegistry(),
		clients:  clients,
		store:    st,
		logger:   log.WithComponent("fabric"),
		internal: events.NewBroker[events.InternalEvent]("internal", 100),
		wire:     events.NewBroker[events.WireEvent]("wire", 100),
	}
}

// WithCommandChannel attaches an outbound hand-off channel for issued
// commands, draining to an external command-ingest worker (out of
// scope here). Must be called before any call to IssueCommand.
func (m *Manager) WithCommandChannel(ch chan<- types.Command) *Manager {
	m.commandCh = ch
	return m
}

// LoadFromStore loads the persisted snapshot, if any, into the
// registry. Call once at startup before serving traffic. Missing or
// unparsable state yields an empty registry, not an error.
func (m *Manager) LoadFromStore() error {
	if m.store == nil {
		return nil
	}
	snap, err := m.store.Load()
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to load persisted state, starting empty")
		return nil
	}

	m.reg.mu.Lock()
	m.reg.loadLocked(snap.Nodes, snap.Agents)
	m.reg.mu.Unlock()
	return nil
}

// SubscribeInternal returns a handle streaming every InternalEvent
// published from this point on.
func (m *Manager) SubscribeInternal() *events.Subscription[events.InternalEvent] {
	return m.internal.Subscribe()
}

// UnsubscribeInternal releases a subscription obtained from SubscribeInternal.
func (m *Manager) UnsubscribeInternal(sub *events.Subscription[events.InternalEvent]) {
	m.internal.Unsubscribe(sub)
}

// SubscribeWire returns a handle streaming every WireEvent published
// from this point on.
func (m *Manager) SubscribeWire() *events.Subscription[events.WireEvent] {
	return m.wire.Subscribe()
}

// UnsubscribeWire releases a subscription obtained from SubscribeWire.
func (m *Manager) UnsubscribeWire(sub *events.Subscription[events.WireEvent]) {
	m.wire.Unsubscribe(sub)
}

// publish fans an InternalEvent out and projects it onto the wire bus.
// Per-event atomicity across the two channels means both publishes
// happen back to back with no intervening mutation, not that delivery
// to any one subscriber is guaranteed.
func (m *Manager) publish(ev events.InternalEvent) {
	m.internal.Publish(ev)
	wireEv := events.Project(ev)
	m.wire.Publish(*wireEv)
	metrics.EventsPublishedTotal.WithLabelValues(wireEv.EventType).Inc()
}

// snapshot persists the current registry state. Failures are logged
// and otherwise ignored: a missed snapshot write never blocks the
// caller or rolls back the mutation that triggered it.
func (m *Manager) snapshot() {
	if m.store == nil {
		return
	}
	m.reg.mu.Lock()
	nodes, agents := m.reg.snapshotLocked()
	m.reg.mu.Unlock()

	timer := metrics.NewTimer()
	err := m.store.Save(&store.Snapshot{Nodes: nodes, Agents: agents})
	timer.ObserveDuration(metrics.SnapshotDuration)
	if err != nil {
		metrics.SnapshotFailuresTotal.Inc()
		m.logger.Error().Err(err).Msg("failed to snapshot registry state")
	}
}

// updateGauges recomputes the node/agent count gauges from the
// current registry contents, grouped by status.
func (m *Manager) updateGauges() {
	m.reg.mu.Lock()
	nodeCounts := make(map[string]int, len(m.reg.nodes))
	for _, n := range m.reg.nodes {
		nodeCounts[string(n.Status)]++
	}
	agentCounts := make(map[string]int, len(m.reg.agents))
	for _, a := range m.reg.agents {
		agentCounts[string(a.Status)]++
	}
	m.reg.mu.Unlock()

	metrics.NodesTotal.Reset()
	for status, count := range nodeCounts {
		metrics.NodesTotal.WithLabelValues(status).Set(float64(count))
	}
	metrics.AgentsTotal.Reset()
	for status, count := range agentCounts {
		metrics.AgentsTotal.WithLabelValues(status).Set(float64(count))
	}
}

// RegisterNode adds or replaces a compute node in the registry. A
// proxy dial is attempted synchronously but its failure never blocks
// registration: the node is still usable for registry purposes, only
// command dispatch is disabled.
func (m *Manager) RegisterNode(node *types.ComputeNode) {
	if node.ID == "" {
		m.logger.Warn().Msg("register_node: empty node id")
		metrics.PreconditionRejectionsTotal.WithLabelValues("register_node").Inc()
		return
	}

	if node.HasProxy() {
		if _, err := m.clients.Ensure(node.ID, node.ProxyListenAddress); err != nil {
			m.logger.Error().Err(err).Str("node_id", node.ID).Msg("failed to dial node proxy, registering without client")
		}
	}

	m.reg.mu.Lock()
	m.reg.nodes[node.ID] = node.Clone()
	m.reg.mu.Unlock()

	metrics.MutationsTotal.WithLabelValues("register_node").Inc()
	m.publish(events.NodeRegistered{Node: node.Clone()})
	m.snapshot()
	m.updateGauges()
}

// UpdateNodeStatus sets a known node's status and refreshes its
// last-seen timestamp. The telemetry payload is accepted but never
// persisted in the registry; forwarding it to an external telemetry
// collaborator is out of scope here.
func (m *Manager) UpdateNodeStatus(nodeID string, status types.NodeStatus, telemetry map[string]string) {
	now := time.Now().UTC()

	m.reg.mu.Lock()
	node, ok := m.reg.nodes[nodeID]
	if !ok {
		m.reg.mu.Unlock()
		m.logger.Warn().Str("node_id", nodeID).Msg("update_node_status: unknown node")
		metrics.PreconditionRejectionsTotal.WithLabelValues("update_node_status").Inc()
		return
	}
	node.Status = status
	node.LastSeen = now
	m.reg.mu.Unlock()

	metrics.MutationsTotal.WithLabelValues("update_node_status").Inc()
	m.publish(events.NodeStatusUpdate{NodeID: nodeID, Status: status, Telemetry: telemetry})
	m.snapshot()
	m.updateGauges()
}

// RegisterAIAgent inserts a caller-constructed agent, e.g. one
// admitted outside the DeployAgent flow.
func (m *Manager) RegisterAIAgent(agent *types.AIAgent) {
	if agent.ID == "" {
		m.logger.Warn().Msg("register_ai_agent: empty agent id")
		metrics.PreconditionRejectionsTotal.WithLabelValues("register_ai_agent").Inc()
		return
	}
	agent.LastUpdated = time.Now().UTC()

	m.reg.mu.Lock()
	m.reg.agents[agent.ID] = agent.Clone()
	m.reg.mu.Unlock()

	metrics.MutationsTotal.WithLabelValues("register_ai_agent").Inc()
	m.publish(events.AgentRegistered{Agent: agent.Clone()})
	m.snapshot()
	m.updateGauges()
}

// UpdateAIAgentStatus sets a known agent's status, and optionally its
// current task and progress. Updating an unknown agent is a warning,
// not an error.
func (m *Manager) UpdateAIAgentStatus(agentID string, status types.AgentStatus, task string, hasTask bool, progress float64, hasProg bool) {
	m.reg.mu.Lock()
	agent, ok := m.reg.agents[agentID]
	if !ok {
		m.reg.mu.Unlock()
		m.logger.Warn().Str("agent_id", agentID).Msg("update_ai_agent_status: unknown agent")
		metrics.PreconditionRejectionsTotal.WithLabelValues("update_ai_agent_status").Inc()
		return
	}
	agent.Status = status
	agent.LastUpdated = time.Now().UTC()
	if hasTask {
		agent.CurrentTask = task
	}
	if hasProg {
		agent.TaskProgress = progress
		agent.HasProgress = true
	}
	m.reg.mu.Unlock()

	metrics.MutationsTotal.WithLabelValues("update_ai_agent_status").Inc()
	m.publish(events.AgentStatusUpdate{AgentID: agentID, Status: status, Task: task, HasTask: hasTask, Progress: progress, HasProg: hasProg})
	m.snapshot()
	m.updateGauges()
}

// DeployAgent admits a new agent onto an Online node: it validates
// preconditions under lock, calls the node's proxy through its cached
// client outside the lock, then reacquires the lock to record the outcome. The three
// phases are kept lexically distinct so the protocol is mechanically
// checkable rather than relying on careful lock bookkeeping scattered
// through one function.
func (m *Manager) DeployAgent(ctx context.Context, targetNodeID, name, agentType string) {
	// Phase 1: validate preconditions under lock.
	m.reg.mu.Lock()
	node, ok := m.reg.nodes[targetNodeID]
	if !ok || node.Status != types.NodeStatusOnline {
		m.reg.mu.Unlock()
		m.logger.Warn().Str("node_id", targetNodeID).Msg("deploy_agent: target node absent or not Online")
		metrics.PreconditionRejectionsTotal.WithLabelValues("deploy_agent").Inc()
		return
	}
	m.reg.mu.Unlock()

	proto := &types.AIAgent{
		ID:             "agent-" + uuid.NewString(),
		Name:           name,
		AgentType:      agentType,
		AssignedNodeID: targetNodeID,
		Status:         types.AgentStatusDeploying,
		LastUpdated:    time.Now().UTC(),
	}

	// Phase 2: side effect, entirely outside the lock.
	client, ok := m.clients.Get(targetNodeID)
	if !ok {
		m.logger.Warn().Str("node_id", targetNodeID).Msg("deploy_agent: no client for target node, proto-agent discarded")
		metrics.PreconditionRejectionsTotal.WithLabelValues("deploy_agent").Inc()
		return
	}

	timer := metrics.NewTimer()
	status, message, err := client.DeployAgent(ctx, proto.ID, agentType, name, nil)
	success := err == nil && status == nodeproxy.StatusSuccess
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	timer.ObserveDurationVec(metrics.OutboundRPCDuration, "DeployAgent", outcome)
	if err != nil {
		m.logger.Error().Err(err).Str("node_id", targetNodeID).Str("agent_id", proto.ID).Msg("deploy_agent: outbound RPC failed")
	} else if !success {
		m.logger.Warn().Str("node_id", targetNodeID).Str("agent_id", proto.ID).Str("status", status).Str("message", message).Msg("deploy_agent: node proxy rejected deploy")
	}

	// Phase 3: reacquire the lock for the follow-up mutation.
	m.reg.mu.Lock()
	if _, exists := m.reg.agents[proto.ID]; !exists {
		if success {
			proto.Status = types.AgentStatusRunning
		} else {
			proto.Status = types.AgentStatusFailed
		}
		m.reg.agents[proto.ID] = proto
	}
	final := m.reg.agents[proto.ID].Clone()
	m.reg.mu.Unlock()

	metrics.MutationsTotal.WithLabelValues("deploy_agent").Inc()
	m.publish(events.AgentRegistered{Agent: final})
	m.snapshot()
	m.updateGauges()
}

// StopAgent tells the assigned node's proxy to stop an agent and
// records the outcome on the registry entry.
func (m *Manager) StopAgent(ctx context.Context, agentID string) {
	m.reg.mu.Lock()
	agent, ok := m.reg.agents[agentID]
	if !ok {
		m.reg.mu.Unlock()
		m.logger.Warn().Str("agent_id", agentID).Msg("stop_agent: unknown agent")
		metrics.PreconditionRejectionsTotal.WithLabelValues("stop_agent").Inc()
		return
	}
	if agent.AssignedNodeID == "" {
		m.reg.mu.Unlock()
		m.logger.Warn().Str("agent_id", agentID).Msg("stop_agent: agent has no assigned node")
		metrics.PreconditionRejectionsTotal.WithLabelValues("stop_agent").Inc()
		return
	}
	nodeID := agent.AssignedNodeID
	m.reg.mu.Unlock()

	client, ok := m.clients.Get(nodeID)
	if !ok {
		m.logger.Warn().Str("agent_id", agentID).Str("node_id", nodeID).Msg("stop_agent: no client for assigned node")
		metrics.PreconditionRejectionsTotal.WithLabelValues("stop_agent").Inc()
		return
	}

	timer := metrics.NewTimer()
	status, message, err := client.StopAgent(ctx, agentID)
	success := err == nil && status == nodeproxy.StatusSuccess
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	timer.ObserveDurationVec(metrics.OutboundRPCDuration, "StopAgent", outcome)
	if err != nil {
		m.logger.Error().Err(err).Str("agent_id", agentID).Msg("stop_agent: outbound RPC failed")
	} else if !success {
		m.logger.Warn().Str("agent_id", agentID).Str("status", status).Str("message", message).Msg("stop_agent: node proxy rejected stop")
	}

	newStatus := types.AgentStatusStopped
	if !success {
		newStatus = types.AgentStatusError
	}

	m.reg.mu.Lock()
	if a, ok := m.reg.agents[agentID]; ok {
		a.Status = newStatus
		a.LastUpdated = time.Now().UTC()
	}
	m.reg.mu.Unlock()

	metrics.MutationsTotal.WithLabelValues("stop_agent").Inc()
	m.publish(events.AgentStatusUpdate{AgentID: agentID, Status: newStatus})
	m.snapshot()
	m.updateGauges()
}

// MigrateAgent reassigns an agent to a different destination node. No
// remote RPC is issued: migration is a registry-only transition in
// the current design.
func (m *Manager) MigrateAgent(agentID, destinationNodeID string) {
	m.reg.mu.Lock()
	if _, ok := m.reg.nodes[destinationNodeID]; !ok {
		m.reg.mu.Unlock()
		m.logger.Warn().Str("node_id", destinationNodeID).Msg("migrate_agent: destination node absent")
		metrics.PreconditionRejectionsTotal.WithLabelValues("migrate_agent").Inc()
		return
	}
	agent, ok := m.reg.agents[agentID]
	if !ok {
		m.reg.mu.Unlock()
		m.logger.Warn().Str("agent_id", agentID).Msg("migrate_agent: unknown agent")
		metrics.PreconditionRejectionsTotal.WithLabelValues("migrate_agent").Inc()
		return
	}
	agent.AssignedNodeID = destinationNodeID
	agent.Status = types.AgentStatusMigrating
	agent.LastUpdated = time.Now().UTC()
	m.reg.mu.Unlock()

	metrics.MutationsTotal.WithLabelValues("migrate_agent").Inc()
	m.publish(events.AgentStatusUpdate{AgentID: agentID, Status: types.AgentStatusMigrating})
	m.snapshot()
	m.updateGauges()
}

// IssueCommand publishes a CommandIssued event and, if a command
// channel was attached via WithCommandChannel, hands the command off
// to it non-blockingly. The command-ingest worker that translates it
// back into one of the operations above is an external collaborator
// out of scope here.
func (m *Manager) IssueCommand(cmd types.Command) {
	metrics.MutationsTotal.WithLabelValues("issue_command").Inc()
	m.publish(events.CommandIssued{CommandType: cmd.CommandType, TargetID: cmd.TargetID})

	if m.commandCh != nil {
		select {
		case m.commandCh <- cmd:
		default:
			m.logger.Warn().Str("command_id", cmd.CommandID).Msg("command channel full or unread, dropping hand-off")
		}
	}
}

// Node returns a clone of the node with the given id, if present.
func (m *Manager) Node(id string) (*types.ComputeNode, bool) {
	m.reg.mu.Lock()
	defer m.reg.mu.Unlock()
	n, ok := m.reg.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Nodes returns a clone of every registered node.
func (m *Manager) Nodes() []*types.ComputeNode {
	m.reg.mu.Lock()
	defer m.reg.mu.Unlock()
	out := make([]*types.ComputeNode, 0, len(m.reg.nodes))
	for _, n := range m.reg.nodes {
		out = append(out, n.Clone())
	}
	return out
}

// Agent returns a clone of the agent with the given id, if present.
func (m *Manager) Agent(id string) (*types.AIAgent, bool) {
	m.reg.mu.Lock()
	defer m.reg.mu.Unlock()
	a, ok := m.reg.agents[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Agents returns a clone of every registered agent.
func (m *Manager) Agents() []*types.AIAgent {
	m.reg.mu.Lock()
	defer m.reg.mu.Unlock()
	out := make([]*types.AIAgent, 0, len(m.reg.agents))
	for _, a := range m.reg.agents {
		out = append(out, a.Clone())
	}
	return out
}
