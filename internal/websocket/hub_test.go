package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records sent messages for assertions
type fakeClient struct {
	id     string
	userID uuid.UUID
	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func newFakeClient(userID uuid.UUID) *fakeClient {
	return &fakeClient{id: uuid.New().String(), userID: userID}
}

func (c *fakeClient) ID() string        { return c.id }
func (c *fakeClient) UserID() uuid.UUID { return c.userID }

func (c *fakeClient) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	client := newFakeClient(userID)
	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount(userID))

	other := newFakeClient(userID)
	hub.Register(other)
	assert.Equal(t, 2, hub.ClientCount(userID))
	assert.Equal(t, 2, hub.TotalClientCount())

	hub.Unregister(client)
	assert.Equal(t, 1, hub.ClientCount(userID))

	hub.Unregister(other)
	assert.Equal(t, 0, hub.ClientCount(userID))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHubBroadcastReachesOnlyOwner(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()
	stranger := uuid.New()

	ownerClient := newFakeClient(owner)
	strangerClient := newFakeClient(stranger)
	hub.Register(ownerClient)
	hub.Register(strangerClient)

	hub.Broadcast(owner, NewEvent(EventTypeCreated, EntityTypeAccount, map[string]string{"name": "Main"}))

	require.Eventually(t, func() bool {
		return ownerClient.sentCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, strangerClient.sentCount())
}

func TestHubBroadcastNoClients(t *testing.T) {
	hub := NewHub()
	// Must not panic when nobody is connected
	hub.Broadcast(uuid.New(), NewEvent(EventTypeDeleted, EntityTypeBudget, nil))
}
