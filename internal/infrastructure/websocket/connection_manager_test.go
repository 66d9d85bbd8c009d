package websocket

import (
	"sync"
	"testing"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	mu     sync.Mutex
	userID string
	itemID string
	sent   []interface{}
	closed bool
}

func (c *stubConn) Send(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message)
	return nil
}

func (c *stubConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *stubConn) UserID() string { return c.userID }
func (c *stubConn) ItemID() string { return c.itemID }

func (c *stubConn) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestConnectionManager_BroadcastToItem(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())

	alice := &stubConn{userID: "alice", itemID: "item-1"}
	bob := &stubConn{userID: "bob", itemID: "item-1"}
	carol := &stubConn{userID: "carol", itemID: "item-2"}

	require.NoError(t, cm.RegisterConnection("alice", "item-1", alice))
	require.NoError(t, cm.RegisterConnection("bob", "item-1", bob))
	require.NoError(t, cm.RegisterConnection("carol", "item-2", carol))

	require.NoError(t, cm.BroadcastToItem("item-1", map[string]string{"type": "bid_accepted"}))

	assert.Equal(t, 1, alice.sentCount())
	assert.Equal(t, 1, bob.sentCount())
	assert.Equal(t, 0, carol.sentCount())
}

func TestConnectionManager_Unregister(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())

	alice := &stubConn{userID: "alice", itemID: "item-1"}
	require.NoError(t, cm.RegisterConnection("alice", "item-1", alice))
	require.NoError(t, cm.UnregisterConnection("alice", "item-1"))

	assert.Empty(t, cm.GetConnectionsForItem("item-1"))
	assert.Empty(t, cm.GetConnectionsForUser("alice"))
}

func TestConnectionManager_CloseAndUnregisterConnections(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())

	alice := &stubConn{userID: "alice", itemID: "item-1"}
	bob := &stubConn{userID: "bob", itemID: "item-1"}
	// Alice also watches another item; that connection must survive.
	aliceOther := &stubConn{userID: "alice", itemID: "item-2"}

	require.NoError(t, cm.RegisterConnection("alice", "item-1", alice))
	require.NoError(t, cm.RegisterConnection("bob", "item-1", bob))
	require.NoError(t, cm.RegisterConnection("alice", "item-2", aliceOther))

	require.NoError(t, cm.CloseAndUnregisterConnections("item-1"))

	assert.True(t, alice.closed)
	assert.True(t, bob.closed)
	assert.False(t, aliceOther.closed)
	assert.Empty(t, cm.GetConnectionsForItem("item-1"))
	assert.Len(t, cm.GetConnectionsForUser("alice"), 1)
}

func TestConnectionManager_NotifyUser(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())

	a1 := &stubConn{userID: "alice", itemID: "item-1"}
	a2 := &stubConn{userID: "alice", itemID: "item-2"}
	require.NoError(t, cm.RegisterConnection("alice", "item-1", a1))
	require.NoError(t, cm.RegisterConnection("alice", "item-2", a2))

	require.NoError(t, cm.NotifyUser("alice", domain.BidEvent{Type: domain.AuctionEnded}))

	assert.Equal(t, 1, a1.sentCount())
	assert.Equal(t, 1, a2.sentCount())
}
