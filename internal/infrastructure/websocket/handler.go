package websocket

import (
	"net/http"
	"sync"

	"auction-marketplace/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks belong to the gateway in front of this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades watcher connections for one item's live feed.
// The item id comes from the route, the caller identity from the identity
// provider header set by the request layer.
type WebSocketHandler struct {
	connManager *ConnectionManager
	log         logger.Logger
}

func NewWebSocketHandler(connManager *ConnectionManager, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		connManager: connManager,
		log:         log,
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	itemID := vars["itemID"]

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}
	if itemID == "" || userID == "" {
		http.Error(w, "item id and user id required", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := &itemConnection{
		ws:     ws,
		userID: userID,
		itemID: itemID,
	}

	if err := h.connManager.RegisterConnection(userID, itemID, conn); err != nil {
		h.log.Error("Failed to register connection", "user_id", userID, "item_id", itemID, "error", err)
		ws.Close()
		return
	}

	// Reader detects client disconnects; the feed itself is write-only.
	go h.readLoop(conn)
}

func (h *WebSocketHandler) readLoop(conn *itemConnection) {
	defer func() {
		h.connManager.UnregisterConnection(conn.userID, conn.itemID)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// itemConnection adapts a gorilla conn to domain.WebSocketConnection.
// Gorilla allows one concurrent writer, hence the mutex.
type itemConnection struct {
	ws      *websocket.Conn
	userID  string
	itemID  string
	writeMu sync.Mutex
	closed  bool
}

func (c *itemConnection) Send(message interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	switch m := message.(type) {
	case []byte:
		return c.ws.WriteMessage(websocket.TextMessage, m)
	default:
		return c.ws.WriteJSON(m)
	}
}

func (c *itemConnection) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}

func (c *itemConnection) UserID() string { return c.userID }

func (c *itemConnection) ItemID() string { return c.itemID }
