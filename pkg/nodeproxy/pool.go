package nodeproxy

import (
	"fmt"
	"sync"
)

// Dialer opens a Client to a node proxy's listen address. A field
// of this type so tests can inject a fake in place of real gRPC dials.
type Dialer func(addr string) (Client, error)

// Pool caches one Client per node, keyed by node ID. A node that
// re-registers with a new (or same) proxy address is redialed and its
// old client closed and replaced, rather than reused: the spec leaves
// re-registration semantics open, and assuming the old connection is
// still good risks silently talking to a dead proxy after a node restart.
type Pool struct {
	mu      sync.Mutex
	clients map[string]Client
	dial    Dialer
}

// NewPool creates an empty pool using the production gRPC dialer.
func NewPool() *Pool {
	return &Pool{
		clients: make(map[string]Client),
		dial:    Dial,
	}
}

// NewPoolWithDialer creates an empty pool using a caller-supplied
// Dialer, for tests.
func NewPoolWithDialer(dial Dialer) *Pool {
	return &Pool{
		clients: make(map[string]Client),
		dial:    dial,
	}
}

// Ensure dials (or redials) the client for nodeID at addr, replacing
// and closing any previously cached client for that node.
func (p *Pool) Ensure(nodeID, addr string) (Client, error) {
	client, err := p.dial(addr)
	if err != nil {
		return nil, fmt.Errorf("nodeproxy: ensure %s: %w", nodeID, err)
	}

	p.mu.Lock()
	old, had := p.clients[nodeID]
	p.clients[nodeID] = client
	p.mu.Unlock()

	if had {
		old.Close()
	}
	return client, nil
}

// Get returns the cached client for nodeID, if any.
func (p *Pool) Get(nodeID string) (Client, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.clients[nodeID]
	return c, ok
}

// Remove closes and discards the cached client for nodeID, if any.
func (p *Pool) Remove(nodeID string) {
	p.mu.Lock()
	client, ok := p.clients[nodeID]
	delete(p.clients, nodeID)
	p.mu.Unlock()

	if ok {
		client.Close()
	}
}

// Close closes every cached client.
func (p *Pool) Close() {
	p.mu.Lock()
	clients := p.clients
	p.clients = make(map[string]Client)
	p.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}
