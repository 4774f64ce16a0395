package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

// BookingEvent 预订生命周期事件
// 推送给已连接的排期看板,驱动实时刷新
type BookingEvent struct {
	Type      string     `json:"type"` // booking.tentative / booking.confirmed
	RequestID string     `json:"request_id"`
	Status    string     `json:"status"`
	StartAt   *time.Time `json:"start_at,omitempty"`
}

// Hub 管理所有 WebSocket 连接
type Hub struct {
	// 已注册的客户端
	clients map[*Client]bool

	// 广播消息到所有客户端
	Broadcast chan []byte

	// 注册新客户端
	Register chan *Client

	// 注销客户端
	Unregister chan *Client

	// 互斥锁,保护 clients map
	mu sync.RWMutex
}

// NewHub 创建新的 Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run 运行 Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishBookingEvent 广播预订事件
// 非阻塞: Hub 未运行或队列满时直接丢弃,业务流程不受影响
func (h *Hub) PublishBookingEvent(requestID string, status string, startAt *time.Time) {
	event := BookingEvent{
		Type:      "booking." + status,
		RequestID: requestID,
		Status:    status,
		StartAt:   startAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	select {
	case h.Broadcast <- payload:
	default:
	}
}
