package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/broker"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
)

var (
	ErrRoomRequired       = errors.New("room id is required")
	ErrUnknownMessageType = errors.New("unknown chat message type")
)

// ChatService relays chat messages to the room topic of the broker.
type ChatService interface {
	Enter(ctx context.Context, msg model.ChatMessage) error
	Send(ctx context.Context, msg model.ChatMessage) error
	Handle(ctx context.Context, msg model.ChatMessage) error
}

type chatService struct {
	broker         broker.Broker
	welcomeMessage string
}

func NewChatService(b broker.Broker, welcomeMessage string) ChatService {
	return &chatService{
		broker:         b,
		welcomeMessage: welcomeMessage,
	}
}

// Enter replaces the message text with the welcome message before relaying.
func (s *chatService) Enter(ctx context.Context, msg model.ChatMessage) error {
	msg.Type = model.ChatMessageEnter
	msg.Message = s.welcomeMessage
	return s.publish(ctx, msg)
}

func (s *chatService) Send(ctx context.Context, msg model.ChatMessage) error {
	return s.publish(ctx, msg)
}

func (s *chatService) Handle(ctx context.Context, msg model.ChatMessage) error {
	switch msg.Type {
	case model.ChatMessageEnter:
		return s.Enter(ctx, msg)
	case model.ChatMessageTalk:
		return s.Send(ctx, msg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
}

func (s *chatService) publish(ctx context.Context, msg model.ChatMessage) error {
	if msg.RoomID == "" {
		return ErrRoomRequired
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	topic := broker.RoomTopic(msg.RoomID)
	if err := s.broker.Publish(ctx, topic, payload); err != nil {
		logger.Error("Failed to relay chat message", err, map[string]interface{}{
			"room_id": msg.RoomID,
			"type":    msg.Type,
		})
		return err
	}

	logger.Debug("Chat message relayed", map[string]interface{}{
		"topic":  topic,
		"type":   msg.Type,
		"sender": msg.Sender,
	})
	return nil
}
