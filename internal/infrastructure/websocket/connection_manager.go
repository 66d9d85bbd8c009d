package websocket

import (
	"encoding/json"
	"sync"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// ConnectionManager tracks which watchers follow which item so bid events
// can be fanned out and losers notified.
type ConnectionManager struct {
	connections map[string]map[string]domain.WebSocketConnection // itemID -> userID -> connection
	userConns   map[string][]domain.WebSocketConnection          // userID -> connections
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[string]domain.WebSocketConnection),
		userConns:   make(map[string][]domain.WebSocketConnection),
		log:         log,
	}
}

func (cm *ConnectionManager) RegisterConnection(userID, itemID string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	// Register by item
	if cm.connections[itemID] == nil {
		cm.connections[itemID] = make(map[string]domain.WebSocketConnection)
	}
	cm.connections[itemID][userID] = conn

	// Register by user
	cm.userConns[userID] = append(cm.userConns[userID], conn)

	cm.log.Info("Connection registered", "user_id", userID, "item_id", itemID)
	return nil
}

func (cm *ConnectionManager) UnregisterConnection(userID, itemID string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if itemConns, exists := cm.connections[itemID]; exists {
		delete(itemConns, userID)
		if len(itemConns) == 0 {
			delete(cm.connections, itemID)
		}
	}

	cm.dropUserConns(userID, itemID)

	cm.log.Info("Connection unregistered", "user_id", userID, "item_id", itemID)
	return nil
}

func (cm *ConnectionManager) CloseAndUnregisterConnections(itemID string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if itemConns, exists := cm.connections[itemID]; exists {
		for userID, conn := range itemConns {
			if err := conn.Close(); err != nil {
				cm.log.Error("Failed to close connection", "user_id", userID,
					"item_id", itemID, "error", err)
			}
			cm.dropUserConns(userID, itemID)
		}
		delete(cm.connections, itemID)
	}

	cm.log.Info("Connections closed for item", "item_id", itemID)
	return nil
}

// dropUserConns removes the user's connections for one item. Caller holds
// the write lock.
func (cm *ConnectionManager) dropUserConns(userID, itemID string) {
	userConnections, exists := cm.userConns[userID]
	if !exists {
		return
	}

	var kept []domain.WebSocketConnection
	for _, existingConn := range userConnections {
		if existingConn.ItemID() != itemID {
			kept = append(kept, existingConn)
		}
	}

	if len(kept) == 0 {
		delete(cm.userConns, userID)
	} else {
		cm.userConns[userID] = kept
	}
}

func (cm *ConnectionManager) GetConnectionsForItem(itemID string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var connections []domain.WebSocketConnection
	for _, conn := range cm.connections[itemID] {
		connections = append(connections, conn)
	}

	return connections
}

func (cm *ConnectionManager) GetConnectionsForUser(userID string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.userConns[userID]
}

func (cm *ConnectionManager) BroadcastToItem(itemID string, message interface{}) error {
	connections := cm.GetConnectionsForItem(itemID)

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	for _, conn := range connections {
		if err := conn.Send(messageBytes); err != nil {
			cm.log.Error("Failed to send message", "user_id", conn.UserID(),
				"item_id", itemID, "error", err)
			// Continue to other connections
		}
	}

	return nil
}

func (cm *ConnectionManager) NotifyUser(userID string, message interface{}) error {
	connections := cm.GetConnectionsForUser(userID)

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	for _, conn := range connections {
		if err := conn.Send(messageBytes); err != nil {
			cm.log.Error("Failed to send message", "user_id", userID, "error", err)
		}
	}

	return nil
}
