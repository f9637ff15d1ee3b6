package nodeproxy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	addr   string
	closed bool
}

func (f *fakeClient) DeployAgent(ctx context.Context, agentID, agentType, name string, parameters map[string]string) (string, string, error) {
	return StatusSuccess, "", nil
}
func (f *fakeClient) StopAgent(ctx context.Context, agentID string) (string, string, error) {
	return StatusSuccess, "", nil
}
func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func fakeDialer(dialed *[]string) Dialer {
	return func(addr string) (Client, error) {
		*dialed = append(*dialed, addr)
		return &fakeClient{addr: addr}, nil
	}
}

func TestPool_EnsureCachesClient(t *testing.T) {
	var dialed []string
	p := NewPoolWithDialer(fakeDialer(&dialed))

	c, err := p.Ensure("node-1", "10.0.0.1:9000")
	require.NoError(t, err)
	require.NotNil(t, c)

	got, ok := p.Get("node-1")
	assert.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, []string{"10.0.0.1:9000"}, dialed)
}

func TestPool_EnsureRedialsAndClosesOld(t *testing.T) {
	var dialed []string
	p := NewPoolWithDialer(fakeDialer(&dialed))

	first, err := p.Ensure("node-1", "10.0.0.1:9000")
	require.NoError(t, err)

	second, err := p.Ensure("node-1", "10.0.0.2:9000")
	require.NoError(t, err)

	assert.True(t, first.(*fakeClient).closed, "old client must be closed on redial")
	got, _ := p.Get("node-1")
	assert.Same(t, second, got)
	assert.Equal(t, []string{"10.0.0.1:9000", "10.0.0.2:9000"}, dialed)
}

func TestPool_Remove(t *testing.T) {
	var dialed []string
	p := NewPoolWithDialer(fakeDialer(&dialed))

	c, err := p.Ensure("node-1", "10.0.0.1:9000")
	require.NoError(t, err)

	p.Remove("node-1")
	_, ok := p.Get("node-1")
	assert.False(t, ok)
	assert.True(t, c.(*fakeClient).closed)
}

func TestPool_Close(t *testing.T) {
	var dialed []string
	p := NewPoolWithDialer(fakeDialer(&dialed))

	a, _ := p.Ensure("node-1", "10.0.0.1:9000")
	b, _ := p.Ensure("node-2", "10.0.0.2:9000")

	p.Close()
	assert.True(t, a.(*fakeClient).closed)
	assert.True(t, b.(*fakeClient).closed)
}
