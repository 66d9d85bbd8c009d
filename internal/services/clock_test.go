package services

import (
	"testing"
	"time"

	"auction-marketplace/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAuctionClock_IsOpen(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewAuctionClock(newFakeClock(now))

	item := &domain.Item{
		State:    domain.AuctionOpen,
		Deadline: now.Add(time.Hour),
	}
	assert.True(t, clock.IsOpen(item, now))

	// Deadline reached.
	assert.False(t, clock.IsOpen(item, now.Add(time.Hour)))
	assert.False(t, clock.IsOpen(item, now.Add(2*time.Hour)))

	// Open state is required regardless of deadline.
	item.State = domain.AuctionClosedSold
	assert.False(t, clock.IsOpen(item, now))
}

func TestAuctionClock_ForceExpire(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewAuctionClock(newFakeClock(now))

	item := &domain.Item{
		State:    domain.AuctionOpen,
		Deadline: now.Add(time.Hour),
	}

	clock.ForceExpire(item, now)
	assert.Equal(t, now, item.Deadline)
	assert.False(t, clock.IsOpen(item, now))

	// Idempotent: a later "now" never moves the deadline forward again.
	clock.ForceExpire(item, now.Add(time.Minute))
	assert.Equal(t, now, item.Deadline)
}
