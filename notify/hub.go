package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-backoffice/utils"
)

const EventToast = "toast"

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi websocket staff dan mengirim toast ke pemiliknya.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> user id
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]uint),
	}
}

func (h *Hub) Register(conn *websocket.Conn, userID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = userID
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Clients returns the number of open connections.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Notify sends the toast to the user found in ctx, or to everyone when ctx
// carries no user.
func (h *Hub) Notify(ctx context.Context, n Notification) {
	userID, scoped := UserFrom(ctx)
	h.send(Message{Event: EventToast, Data: n}, func(owner uint) bool {
		return !scoped || owner == userID
	})
}

// Broadcast sends a message to every connection.
func (h *Hub) Broadcast(msg Message) {
	h.send(msg, func(uint) bool { return true })
}

func (h *Hub) send(msg Message, match func(owner uint) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling hub message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, owner := range h.clients {
		if !match(owner) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error sending %s to user %d: %v", msg.Event, owner, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
