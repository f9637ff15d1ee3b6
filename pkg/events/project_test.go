package events

import (
	"testing"

	"github.com/nexusprime/fabric/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestProject_NodeRegistered(t *testing.T) {
	w := Project(NodeRegistered{Node: &types.ComputeNode{ID: "node-A"}})
	assert.Equal(t, TypeNodeRegistered, w.EventType)
	assert.Equal(t, "Node registered: node-A", w.Message)
	assert.NotEmpty(t, w.EventID)
	assert.False(t, w.Timestamp.IsZero())
}

func TestProject_NodeStatusUpdate(t *testing.T) {
	w := Project(NodeStatusUpdate{NodeID: "node-A", Status: types.NodeStatusOnline})
	assert.Equal(t, TypeNodeStatusUpdate, w.EventType)
	assert.Equal(t, "Node node-A status updated: Online", w.Message)
}

func TestProject_NodePruned(t *testing.T) {
	w := Project(NodePruned{NodeID: "node-D"})
	assert.Equal(t, TypeNodePruned, w.EventType)
	assert.Equal(t, "Node pruned: node-D", w.Message)
}

func TestProject_AgentRegistered(t *testing.T) {
	w := Project(AgentRegistered{Agent: &types.AIAgent{ID: "agent-1"}})
	assert.Equal(t, TypeAgentRegistered, w.EventType)
	assert.Equal(t, "Agent registered: agent-1", w.Message)
}

func TestProject_AgentStatusUpdateWithMetadata(t *testing.T) {
	w := Project(AgentStatusUpdate{
		AgentID: "agent-1", Status: types.AgentStatusRunning,
		Task: "index-build", HasTask: true,
		Progress: 0.5, HasProg: true,
	})
	assert.Equal(t, TypeAgentStatusUpdate, w.EventType)
	assert.Equal(t, "Agent agent-1 status updated: Running", w.Message)
	assert.Equal(t, "index-build", w.Metadata["current_task"])
	assert.Equal(t, "0.5", w.Metadata["task_progress"])
}

func TestProject_AgentStatusUpdateWithoutOptionalFields(t *testing.T) {
	w := Project(AgentStatusUpdate{AgentID: "agent-1", Status: types.AgentStatusIdle})
	assert.NotContains(t, w.Metadata, "current_task")
	assert.NotContains(t, w.Metadata, "task_progress")
}

func TestProject_AgentPruned(t *testing.T) {
	w := Project(AgentPruned{AgentID: "agent-2"})
	assert.Equal(t, TypeAgentPruned, w.EventType)
	assert.Equal(t, "Agent pruned: agent-2", w.Message)
}

func TestProject_CommandIssued(t *testing.T) {
	w := Project(CommandIssued{CommandType: types.CommandDeployAgent, TargetID: "node-A"})
	assert.Equal(t, TypeCommandIssued, w.EventType)
	assert.Equal(t, "Command issued: DEPLOY_AGENT to node-A", w.Message)
}

func TestProject_EventIDsAreUnique(t *testing.T) {
	a := Project(NodePruned{NodeID: "node-1"})
	b := Project(NodePruned{NodeID: "node-1"})
	assert.NotEqual(t, a.EventID, b.EventID)
}
