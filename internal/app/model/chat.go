package model

// ChatMessageType 채팅 이벤트 타입
type ChatMessageType string

const (
	ChatMessageEnter ChatMessageType = "ENTER" // 입장
	ChatMessageTalk  ChatMessageType = "TALK"  // 대화
)

// ChatMessage is relayed as-is to every subscriber of its room.
type ChatMessage struct {
	Type    ChatMessageType `json:"type"`
	RoomID  string          `json:"room_id"`
	Sender  string          `json:"sender"`
	Message string          `json:"message"`
}
