package domain

import (
	"time"
)

// Item is the bidding-relevant projection of a catalog listing. OwnerID and
// BasePrice are immutable after creation; Deadline only ever moves earlier
// (a seller-triggered sale collapses it to "now").
type Item struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	Images      []string
	BasePrice   Money
	Deadline    time.Time
	State       AuctionState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bid is an accepted offer. Bids are never mutated or deleted; PlacedAt is
// assigned by the engine at acceptance and is the ordering key.
type Bid struct {
	ID       string
	ItemID   string
	BidderID string
	Amount   Money
	PlacedAt time.Time
}

// Winner is the highest accepted bid once an auction has closed.
type Winner struct {
	BidderID string `json:"bidder_id"`
	Amount   Money  `json:"amount"`
}

type StopAction string

const (
	StopActionSell   StopAction = "sell"
	StopActionDelete StopAction = "delete"
)

// StopOutcome is the externally visible result of a stop-auction request.
type StopOutcome struct {
	State  AuctionState
	Winner *Winner
}

type BidEvent struct {
	Type         BidEventType `json:"type"`
	ItemID       string       `json:"item_id"`
	BidderID     string       `json:"bidder_id,omitempty"`
	Amount       string       `json:"amount,omitempty"`
	CurrentPrice string       `json:"current_price,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

type BidEventType string

const (
	BidAccepted  BidEventType = "bid_accepted"
	AuctionEnded BidEventType = "auction_ended"
)

type ScheduledJob struct {
	ID        string
	ItemID    string
	JobType   JobType
	RunAt     time.Time
	Status    JobStatus
	CreatedAt time.Time
}

type JobType string

const (
	JobCloseAuction JobType = "close_auction"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobExecuted  JobStatus = "executed"
	JobCancelled JobStatus = "cancelled"
)
