package domain

import (
	"context"
	"time"
)

// Repository interfaces
type ItemRepository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, itemID string) (*Item, error)
	UpdateItemState(ctx context.Context, itemID string, state AuctionState) error
	UpdateItemDeadline(ctx context.Context, itemID string, deadline time.Time) error
	DeleteItem(ctx context.Context, itemID string) error
	GetItemsByOwner(ctx context.Context, ownerID string) ([]*Item, error)
}

type BidRepository interface {
	SaveBid(ctx context.Context, bid *Bid) error
	GetBidsForItem(ctx context.Context, itemID string) ([]*Bid, error)
	GetBidsForBidder(ctx context.Context, bidderID string) ([]*Bid, error)
}

type SchedulerRepository interface {
	CreateJob(ctx context.Context, job *ScheduledJob) error
	GetPendingJobs(ctx context.Context, before time.Time) ([]*ScheduledJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus) error
	CancelJobsForItem(ctx context.Context, itemID string) error
}

// Cache interfaces
//
// PriceCache is advisory read-side state for the live service. The ledger
// inside the engine's critical section remains the single source of truth.
type PriceCache interface {
	SetCurrentPrice(ctx context.Context, itemID string, price string, leaderID string, state AuctionState) error
	GetCurrentPrice(ctx context.Context, itemID string) (price string, leaderID string, err error)
}

// Event interfaces
type EventPublisher interface {
	PublishBidEvent(ctx context.Context, event *BidEvent) error
}

type EventSubscriber interface {
	SubscribeToBidEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *BidEvent) error

// Notification interfaces
type UserNotifier interface {
	NotifyUser(ctx context.Context, userID string, message interface{}) error
}

type ItemBroadcaster interface {
	BroadcastToItem(ctx context.Context, itemID string, message interface{}) error
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}

// Scheduler interface
type DeadlineScheduler interface {
	ScheduleAuctionClose(ctx context.Context, itemID string, deadline time.Time) error
	CancelSchedule(ctx context.Context, itemID string) error
	Start(ctx context.Context) error
	Stop() error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message interface{}) error
	Close() error
	UserID() string
	ItemID() string
}

type ConnectionManager interface {
	RegisterConnection(userID, itemID string, conn WebSocketConnection) error
	UnregisterConnection(userID, itemID string) error
	GetConnectionsForItem(itemID string) []WebSocketConnection
	GetConnectionsForUser(userID string) []WebSocketConnection
	BroadcastToItem(itemID string, message interface{}) error
	NotifyUser(userID string, message interface{}) error
	CloseAndUnregisterConnections(itemID string) error
}
