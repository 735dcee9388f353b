package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients     map[string]map[*websocket.Conn]*Client // Theo từng articleID
	UserClients map[string]map[*websocket.Conn]*Client // Theo từng userID (thông báo cá nhân)
	Mutex       sync.RWMutex
}

var H = Hub{
	Clients:     make(map[string]map[*websocket.Conn]*Client),
	UserClients: make(map[string]map[*websocket.Conn]*Client),
}

// Register theo articleID riêng (trang đọc bài viết)
func (h *Hub) Register(articleID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[articleID]; !ok {
		h.Clients[articleID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[articleID][conn] = client

	go h.readPump(articleID, conn)
	go h.writePump(client)
}

// Register kênh thông báo cá nhân của một user
func (h *Hub) RegisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.UserClients[userID]; !ok {
		h.UserClients[userID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.UserClients[userID][conn] = client

	go h.readUserPump(userID, conn)
	go h.writePump(client)
}

// Broadcast tới mọi client đang xem một bài viết
func (h *Hub) Broadcast(articleID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[articleID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Gửi tới mọi kết nối của một user
func (h *Hub) BroadcastToUser(userID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.UserClients[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Cập nhật badge số thông báo chưa đọc
func SendBadgeUpdate(userID string, unread int64) {
	data, err := json.Marshal(map[string]interface{}{
		"type":   "badge_update",
		"unread": unread,
	})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastToUser(userID, websocket.TextMessage, data)
}

// Unregister client theo articleID
func (h *Hub) Unregister(articleID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[articleID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, articleID)
		}
	}
}

// Unregister kênh cá nhân
func (h *Hub) UnregisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.UserClients[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.UserClients, userID)
		}
	}
}

// Thống kê kết nối cho endpoint health
func (h *Hub) GetStats() map[string]interface{} {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	articleConns := 0
	for _, clients := range h.Clients {
		articleConns += len(clients)
	}
	userConns := 0
	for _, clients := range h.UserClients {
		userConns += len(clients)
	}
	return map[string]interface{}{
		"article_rooms":       len(h.Clients),
		"article_connections": articleConns,
		"user_connections":    userConns,
	}
}

func (h *Hub) readPump(articleID string, conn *websocket.Conn) {
	defer h.Unregister(articleID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) readUserPump(userID string, conn *websocket.Conn) {
	defer h.UnregisterUser(userID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
