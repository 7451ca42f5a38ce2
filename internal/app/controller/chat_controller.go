package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/service"
	apperrors "github.com/sohwakmo/cucumbermarket-backend/internal/errors"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
	ws "github.com/sohwakmo/cucumbermarket-backend/internal/websocket"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
)

type ChatController struct {
	chatService service.ChatService
	hub         *ws.Hub
	upgrader    websocket.Upgrader
}

// NewChatController accepts upgrades from allowedOrigins; "*" allows any origin.
func NewChatController(chatService service.ChatService, hub *ws.Hub, allowedOrigins []string) *ChatController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &ChatController{
		chatService: chatService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// 브라우저가 아닌 클라이언트는 Origin이 없음
				if origin == "" || origins["*"] {
					return true
				}
				return origins[origin]
			},
		},
	}
}

// ServeRoom upgrades to a websocket bound to one chat room.
// Frames are ChatMessage JSON; ENTER and TALK are relayed to everyone in the room.
// GET /ws/chat/rooms/:room_id
func (ctrl *ChatController) ServeRoom(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	roomID := c.Param("room_id")
	if roomID == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 채팅방 ID입니다")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, map[string]interface{}{
			"room_id": roomID,
		})
		return
	}

	client := ws.NewClient(ctrl.hub, conn, roomID)
	ctrl.hub.Join(client)
	go client.WritePump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"room_id": roomID,
	})

	ctx := c.Request.Context()
	client.ReadPump(func(message []byte) {
		var msg model.ChatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn("Invalid chat message", map[string]interface{}{
				"room_id": roomID,
				"error":   err.Error(),
			})
			return
		}
		// 소켓이 연결된 방으로만 보낼 수 있음
		msg.RoomID = roomID

		if err := ctrl.chatService.Handle(ctx, msg); err != nil {
			logger.Warn("Chat message rejected", map[string]interface{}{
				"room_id": roomID,
				"type":    msg.Type,
				"error":   err.Error(),
			})
		}
	})
}
