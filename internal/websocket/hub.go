package websocket

import (
	"context"
	"sync"

	"github.com/sohwakmo/cucumbermarket-backend/internal/broker"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
)

const (
	// 클라이언트별 송신 버퍼 크기
	sendBufferSize = 256

	// Rate limiting: 최대 메시지 수 (1초당)
	maxMessagesPerSecond = 10
)

// Hub WebSocket 연결 관리자 (채팅방 ID -> 접속 클라이언트)
type Hub struct {
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Subscribe relays every room topic of b to the sockets of that room.
func (h *Hub) Subscribe(ctx context.Context, b broker.Broker) error {
	return b.Subscribe(ctx, broker.RoomTopicPrefix, func(topic string, payload []byte) {
		roomID, ok := broker.RoomIDFromTopic(topic)
		if !ok {
			return
		}
		h.Broadcast(roomID, payload)
	})
}

// Join 채팅방 참여
func (h *Hub) Join(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.RoomID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[client.RoomID] = clients
	}
	clients[client] = struct{}{}

	logger.Info("WebSocket client joined chat room", map[string]interface{}{
		"room_id": client.RoomID,
		"clients": len(clients),
	})
}

// Leave 채팅방 나가기. 송신 채널은 한 번만 닫힌다.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.rooms, client.RoomID)
	}

	logger.Info("WebSocket client left chat room", map[string]interface{}{
		"room_id":   client.RoomID,
		"remaining": len(clients),
	})
}

// Broadcast 채팅방의 모든 클라이언트(발신자 포함)에게 전송
func (h *Hub) Broadcast(roomID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[roomID] {
		select {
		case client.Send <- message:
		default:
			// Send 채널이 막혀있음
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"room_id": roomID,
			})
			h.removeLocked(client)
		}
	}
}

// RoomSize 채팅방 접속자 수
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
