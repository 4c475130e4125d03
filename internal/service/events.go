package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
)

const (
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
	EventUserLoggedOut  = "user_logged_out"

	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"

	EventCartItemAdded   = "cart_item_added"
	EventCartItemRemoved = "cart_item_removed"
	EventCartCheckedOut  = "cart_checked_out"
)

type Event struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id,omitempty"`
	ProductID  uint      `json:"product_id,omitempty"`
	ItemID     uint      `json:"item_id,omitempty"`
	Count      int64     `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publish never fails the caller: events are best effort.
func publish(ctx context.Context, p mykafka.Publisher, topic string, key uint, ev Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := p.PublishEvent(ctx, topic, strconv.FormatUint(uint64(key), 10), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
