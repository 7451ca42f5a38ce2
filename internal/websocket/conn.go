package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 100 * 1024
)

// Client 채팅방 하나에 연결된 WebSocket 세션
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	RoomID string
	Send   chan []byte

	rateMu        sync.Mutex
	messageCount  int       // 최근 1초간 받은 메시지 수
	lastResetTime time.Time // 마지막 카운터 리셋 시간
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		RoomID: roomID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// allow 초당 메시지 수 제한
func (c *Client) allow(now time.Time) bool {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	if now.Sub(c.lastResetTime) >= time.Second {
		c.messageCount = 0
		c.lastResetTime = now
	}
	c.messageCount++
	return c.messageCount <= maxMessagesPerSecond
}

// ReadPump 클라이언트로부터 메시지 읽기. 연결이 끊기면 Hub에서 제거한다.
func (c *Client) ReadPump(handle func(message []byte)) {
	defer func() {
		c.Hub.Leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error", err, map[string]interface{}{
					"room_id": c.RoomID,
				})
			}
			break
		}

		if !c.allow(time.Now()) {
			logger.Warn("Rate limit exceeded", map[string]interface{}{
				"room_id": c.RoomID,
			})
			continue
		}

		logger.Debug("WebSocket message received", map[string]interface{}{
			"room_id": c.RoomID,
			"size":    len(message),
		})
		handle(message)
	}
}

// WritePump 클라이언트로 메시지 쓰기
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub가 채널을 닫음
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Error("Failed to write message", err, map[string]interface{}{
					"room_id": c.RoomID,
				})
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
