package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Catalog event types
const (
	TypeProductListed        = "product.listed"
	TypeProductDeleted       = "product.deleted"
	TypeProductDealCompleted = "product.deal_completed"
)

// CatalogEvent describes a committed change to a listing.
type CatalogEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ProductID     uint      `json:"product_id"`
	MemberID      uint      `json:"member_id"`
	BuyerMemberID *uint     `json:"buyer_member_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewCatalogEvent(eventType string, productID, memberID uint) CatalogEvent {
	return CatalogEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		ProductID: productID,
		MemberID:  memberID,
		Timestamp: time.Now(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event CatalogEvent) error
	Close() error
}

// NoopPublisher drops every event; used when no Kafka brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, CatalogEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
