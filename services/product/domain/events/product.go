package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics published by the product repository.
const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// Version is the current schema version of every product event.
const Version = 1

// ProductChangedEvent is published on product.created and product.updated.
type ProductChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int64     `json:"price_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProductDeletedEvent is published on product.deleted.
type ProductDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ProductID  uuid.UUID `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
