package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Canonical, uppercase event_type tags used on the wire channel.
const (
	TypeNodeRegistered    = "NODE_REGISTERED"
	TypeNodeStatusUpdate  = "NODE_STATUS_UPDATE"
	TypeNodePruned        = "NODE_PRUNED"
	TypeAgentRegistered   = "AGENT_REGISTERED"
	TypeAgentStatusUpdate = "AGENT_STATUS_UPDATE"
	TypeAgentPruned       = "AGENT_PRUNED"
	TypeCommandIssued     = "FABRIC_COMMAND_ISSUED"
)

// Project converts an InternalEvent into its externalized WireEvent.
// The conversion is total (every variant maps to exactly one event_type
// and message template) and pure (no I/O, no registry access).
func Project(event InternalEvent) *WireEvent {
	w := &WireEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]string{},
	}

	switch e := event.(type) {
	case NodeRegistered:
		w.EventType = TypeNodeRegistered
		w.Message = fmt.Sprintf("Node registered: %s", e.Node.ID)

	case NodeStatusUpdate:
		w.EventType = TypeNodeStatusUpdate
		w.Message = fmt.Sprintf("Node %s status updated: %s", e.NodeID, e.Status)

	case NodePruned:
		w.EventType = TypeNodePruned
		w.Message = fmt.Sprintf("Node pruned: %s", e.NodeID)

	case AgentRegistered:
		w.EventType = TypeAgentRegistered
		w.Message = fmt.Sprintf("Agent registered: %s", e.Agent.ID)

	case AgentStatusUpdate:
		w.EventType = TypeAgentStatusUpdate
		w.Message = fmt.Sprintf("Agent %s status updated: %s", e.AgentID, e.Status)
		if e.HasTask {
			w.Metadata["current_task"] = e.Task
		}
		if e.HasProg {
			w.Metadata["task_progress"] = fmt.Sprintf("%v", e.Progress)
		}

	case AgentPruned:
		w.EventType = TypeAgentPruned
		w.Message = fmt.Sprintf("Agent pruned: %s", e.AgentID)

	case CommandIssued:
		w.EventType = TypeCommandIssued
		w.Message = fmt.Sprintf("Command issued: %s to %s", e.CommandType, e.TargetID)

	default:
		w.EventType = "UNKNOWN"
		w.Message = "unrecognized internal event"
	}

	return w
}
