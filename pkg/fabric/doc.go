// Package fabric implements the FabricManager: the single,
// authoritative, in-memory registry of compute nodes and AI agents
// that backs the rest of the control plane. Every exported method
// follows the same mutation protocol — acquire the registry lock,
// validate preconditions, mutate, release the lock, then publish and
// snapshot entirely outside the lock — so that no blocking work is ever
// performed while other callers are held off the registry. Operations
// that dispatch an outbound RPC (DeployAgent, StopAgent) issue it after
// releasing the lock, reacquire it only to record the outcome, and then
// publish and snapshot.
package fabric
