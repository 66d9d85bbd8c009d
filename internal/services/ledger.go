package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// BidLedger holds the per-item append-only sequence of accepted bids and is
// the authoritative source for "current highest". Entries are kept in
// acceptance order; amounts are strictly increasing along that order, so the
// last entry is always the highest.
//
// Append assumes the caller (the engine) holds the per-item critical
// section. The internal mutex only protects the maps against concurrent
// access for unrelated items.
type BidLedger struct {
	repo   domain.BidRepository
	bids   map[string][]*domain.Bid
	loaded map[string]bool
	mu     sync.RWMutex
	log    logger.Logger
}

func NewBidLedger(repo domain.BidRepository, log logger.Logger) *BidLedger {
	return &BidLedger{
		repo:   repo,
		bids:   make(map[string][]*domain.Bid),
		loaded: make(map[string]bool),
		log:    log,
	}
}

// ensureLoaded hydrates the in-memory sequence from the repository the
// first time an item is touched.
func (l *BidLedger) ensureLoaded(ctx context.Context, itemID string) error {
	l.mu.RLock()
	done := l.loaded[itemID]
	l.mu.RUnlock()
	if done {
		return nil
	}

	rows, err := l.repo.GetBidsForItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("load bid history: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PlacedAt.Before(rows[j].PlacedAt)
	})

	l.mu.Lock()
	if !l.loaded[itemID] {
		l.bids[itemID] = rows
		l.loaded[itemID] = true
	}
	l.mu.Unlock()
	return nil
}

// CurrentHighest returns the advertised price: the highest accepted bid's
// amount, or the item's base price when no bids exist.
func (l *BidLedger) CurrentHighest(ctx context.Context, item *domain.Item) (domain.Money, error) {
	if err := l.ensureLoaded(ctx, item.ID); err != nil {
		return domain.Money{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	seq := l.bids[item.ID]
	if len(seq) == 0 {
		return item.BasePrice, nil
	}
	return seq[len(seq)-1].Amount, nil
}

// HasBids reports whether the item has at least one accepted bid.
func (l *BidLedger) HasBids(ctx context.Context, itemID string) (bool, error) {
	if err := l.ensureLoaded(ctx, itemID); err != nil {
		return false, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bids[itemID]) > 0, nil
}

// Append validates the strict-increase rule and records a new accepted bid
// with PlacedAt = now. The audit row is persisted before the in-memory
// append; a failed persist rejects the bid with no partial state.
func (l *BidLedger) Append(ctx context.Context, item *domain.Item, bidderID string, amount domain.Money, now time.Time) (*domain.Bid, error) {
	current, err := l.CurrentHighest(ctx, item)
	if err != nil {
		return nil, err
	}
	if !amount.GreaterThan(current) {
		return nil, domain.ErrBelowCurrentHighest
	}

	bid := &domain.Bid{
		ID:       utils.GenerateID("bid"),
		ItemID:   item.ID,
		BidderID: bidderID,
		Amount:   amount,
		PlacedAt: now,
	}

	if err := l.repo.SaveBid(ctx, bid); err != nil {
		return nil, fmt.Errorf("persist bid: %w", err)
	}

	l.mu.Lock()
	l.bids[item.ID] = append(l.bids[item.ID], bid)
	l.mu.Unlock()

	return bid, nil
}

// History returns a copy of the item's accepted bids sorted by amount
// descending, the leaderboard view. Insertion order stays intact internally.
func (l *BidLedger) History(ctx context.Context, itemID string) ([]*domain.Bid, error) {
	if err := l.ensureLoaded(ctx, itemID); err != nil {
		return nil, err
	}

	l.mu.RLock()
	seq := l.bids[itemID]
	out := make([]*domain.Bid, len(seq))
	copy(out, seq)
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}

// TopBid returns the highest accepted bid, or nil when the item has none.
func (l *BidLedger) TopBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	if err := l.ensureLoaded(ctx, itemID); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	seq := l.bids[itemID]
	if len(seq) == 0 {
		return nil, nil
	}
	return seq[len(seq)-1], nil
}
