package events

import (
	"time"

	"github.com/nexusprime/fabric/pkg/types"
)

// InternalEvent is the closed set of state changes the FabricManager
// publishes on the internal bus. It is a tagged union expressed the Go
// way: an interface with an unexported marker method, implemented by
// one struct per variant below.
type InternalEvent interface {
	internalEvent()
}

// NodeRegistered fires once a ComputeNode has been inserted into the registry.
type NodeRegistered struct {
	Node *types.ComputeNode
}

// NodeStatusUpdate fires whenever an existing node's status is accepted.
type NodeStatusUpdate struct {
	NodeID    string
	Status    types.NodeStatus
	Telemetry map[string]string // summary only; never persisted, see pkg/fabric
}

// NodePruned fires when the reaper removes a stale node.
type NodePruned struct {
	NodeID string
}

// AgentRegistered fires once an AIAgent has been inserted into the registry.
type AgentRegistered struct {
	Agent *types.AIAgent
}

// AgentStatusUpdate fires whenever an existing agent's status is accepted.
type AgentStatusUpdate struct {
	AgentID  string
	Status   types.AgentStatus
	Task     string
	HasTask  bool
	Progress float64
	HasProg  bool
}

// AgentPruned fires when the reaper removes a stale agent, the
// agent-side counterpart to NodePruned.
type AgentPruned struct {
	AgentID string
}

// CommandIssued fires whenever a Command is accepted for dispatch.
type CommandIssued struct {
	CommandType types.CommandType
	TargetID    string
}

func (NodeRegistered) internalEvent()    {}
func (NodeStatusUpdate) internalEvent()  {}
func (NodePruned) internalEvent()        {}
func (AgentRegistered) internalEvent()   {}
func (AgentStatusUpdate) internalEvent() {}
func (AgentPruned) internalEvent()       {}
func (CommandIssued) internalEvent()     {}

// WireEvent is the externalized projection of an InternalEvent, shaped
// for downstream consumers such as a UI bridge (out of scope here).
type WireEvent struct {
	EventID   string
	Timestamp time.Time
	EventType string
	Message   string
	Metadata  map[string]string
	Telemetry map[string]string // populated only by the external telemetry collaborator, never by the core
}
