package services

import (
	"time"

	"auction-marketplace/internal/domain"
)

// Clock supplies "now" so deadline logic is testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewClock() Clock { return realClock{} }

// AuctionClock answers whether an item is open for bidding and supports
// seller-triggered immediate expiry.
type AuctionClock struct {
	clock Clock
}

func NewAuctionClock(clock Clock) *AuctionClock {
	return &AuctionClock{clock: clock}
}

func (c *AuctionClock) Now() time.Time {
	return c.clock.Now()
}

// IsOpen reports whether the item accepts bids at now.
func (c *AuctionClock) IsOpen(item *domain.Item, now time.Time) bool {
	return item.State == domain.AuctionOpen && now.Before(item.Deadline)
}

// ForceExpire collapses the deadline to now. Idempotent: a deadline already
// in the past stays where it is, so deadlines only ever move earlier.
func (c *AuctionClock) ForceExpire(item *domain.Item, now time.Time) {
	if now.Before(item.Deadline) {
		item.Deadline = now
	}
}
