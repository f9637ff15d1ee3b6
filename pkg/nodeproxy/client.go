// Package nodeproxy is the outbound RPC client the fabric manager uses
// to dispatch commands to the per-node proxy process running
// alongside each ComputeNode. That proxy's own implementation (and the
// agent runtimes it supervises) is an external collaborator outside
// this repo's scope; this package only needs to speak its client
// contract.
package nodeproxy

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// callTimeout bounds every outbound call so a wedged or unreachable
// node proxy can never stall a fabric mutation indefinitely.
const callTimeout = 10 * time.Second

const (
	methodDeployAgent = "/nodeproxy.NodeProxy/DeployAgent"
	methodStopAgent   = "/nodeproxy.NodeProxy/StopAgent"
)

// deployAgentRequest is sent to a node proxy to start an agent.
type deployAgentRequest struct {
	AgentID    string            `json:"agent_id"`
	AgentType  string            `json:"agent_type"`
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters"`
}

// deployAgentResponse acknowledges a deploy request. Status is a literal
// string, "SUCCESS" on the happy path; any other value (or a non-nil
// error) means the deploy did not take.
type deployAgentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// stopAgentRequest is sent to a node proxy to stop a running agent.
type stopAgentRequest struct {
	AgentID string `json:"agent_id"`
}

// stopAgentResponse acknowledges a stop request, using the same
// status/message convention as deployAgentResponse.
type stopAgentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusSuccess is the literal status string a node proxy returns on a
// successful DeployAgent or StopAgent call.
const StatusSuccess = "SUCCESS"

// Client is the command surface a fabric manager needs against a
// single node's proxy. Implementations must be safe for concurrent use.
type Client interface {
	DeployAgent(ctx context.Context, agentID, agentType, name string, parameters map[string]string) (status, message string, err error)
	StopAgent(ctx context.Context, agentID string) (status, message string, err error)
	Close() error
}

// grpcClient is the production Client, invoking the proxy over gRPC
// with the JSON content-subtype in place of generated protobuf stubs.
type grpcClient struct {
	conn *grpc.ClientConn
}

// Dial opens an insecure gRPC connection to a node proxy's listen
// address. Node-to-manager transport security is handled by the
// deployment's network boundary (out of scope here, as node auth is
// an explicit non-goal).
func Dial(addr string) (Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("nodeproxy: dial %s: %w", addr, err)
	}
	return &grpcClient{conn: conn}, nil
}

func (c *grpcClient) DeployAgent(ctx context.Context, agentID, agentType, name string, parameters map[string]string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := &deployAgentRequest{AgentID: agentID, AgentType: agentType, Name: name, Parameters: parameters}
	resp := &deployAgentResponse{}
	if err := c.conn.Invoke(ctx, methodDeployAgent, req, resp, grpc.CallContentSubtype(codecName)); err != nil {
		return "", "", fmt.Errorf("nodeproxy: DeployAgent: %w", err)
	}
	return resp.Status, resp.Message, nil
}

func (c *grpcClient) StopAgent(ctx context.Context, agentID string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := &stopAgentRequest{AgentID: agentID}
	resp := &stopAgentResponse{}
	if err := c.conn.Invoke(ctx, methodStopAgent, req, resp, grpc.CallContentSubtype(codecName)); err != nil {
		return "", "", fmt.Errorf("nodeproxy: StopAgent: %w", err)
	}
	return resp.Status, resp.Message, nil
}

func (c *grpcClient) Close() error {
	return c.conn.Close()
}
