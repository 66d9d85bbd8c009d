package services

import (
	"context"
	"fmt"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// EventListener feeds bid events from the subscriber into the websocket
// fanout for the live-update service.
type EventListener struct {
	connManager domain.ConnectionManager
	broadcaster domain.ItemBroadcaster
	log         logger.Logger
}

func NewEventListener(connManager domain.ConnectionManager, broadcaster domain.ItemBroadcaster,
	log logger.Logger) *EventListener {
	return &EventListener{
		connManager: connManager,
		broadcaster: broadcaster,
		log:         log,
	}
}

func (el *EventListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	el.log.Info("Starting event listener")
	return subscriber.SubscribeToBidEvents(ctx, el.handleBidEvent)
}

func (el *EventListener) handleBidEvent(event *domain.BidEvent) error {
	el.log.Info("Handling bid event", "type", event.Type, "item_id", event.ItemID)

	switch event.Type {
	case domain.BidAccepted:
		return el.handleBidAccepted(event)
	case domain.AuctionEnded:
		return el.handleAuctionEnded(event)
	}

	return fmt.Errorf("unknown event type %q", event.Type)
}

func (el *EventListener) handleBidAccepted(event *domain.BidEvent) error {
	return el.broadcaster.BroadcastToItem(context.Background(), event.ItemID, map[string]interface{}{
		"type":          string(domain.BidAccepted),
		"item_id":       event.ItemID,
		"bidder_id":     event.BidderID,
		"amount":        event.Amount,
		"current_price": event.CurrentPrice,
		"timestamp":     event.Timestamp,
	})
}

func (el *EventListener) handleAuctionEnded(event *domain.BidEvent) error {
	if err := el.broadcaster.BroadcastToItem(context.Background(), event.ItemID, map[string]interface{}{
		"type":      string(domain.AuctionEnded),
		"item_id":   event.ItemID,
		"timestamp": event.Timestamp,
	}); err != nil {
		el.log.Error("Failed to broadcast auction end", "item_id", event.ItemID, "error", err)
	}

	// Watchers of a finished auction get disconnected after the final message.
	return el.connManager.CloseAndUnregisterConnections(event.ItemID)
}
