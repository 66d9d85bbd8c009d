package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// AuctionEngine is the orchestrating façade for bid placement and auction
// lifecycle. Every mutating operation on an item runs under that item's
// exclusive lock, so concurrent bidders observe a serial order while
// unrelated items never contend.
type AuctionEngine struct {
	items      domain.ItemRepository
	ledger     *BidLedger
	clock      *AuctionClock
	scheduler  domain.DeadlineScheduler
	eventPub   domain.EventPublisher
	priceCache domain.PriceCache
	log        logger.Logger

	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

func NewAuctionEngine(
	items domain.ItemRepository,
	ledger *BidLedger,
	clock *AuctionClock,
	scheduler domain.DeadlineScheduler,
	eventPub domain.EventPublisher,
	priceCache domain.PriceCache,
	log logger.Logger,
) *AuctionEngine {
	return &AuctionEngine{
		items:      items,
		ledger:     ledger,
		clock:      clock,
		scheduler:  scheduler,
		eventPub:   eventPub,
		priceCache: priceCache,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}
}

// SetScheduler breaks the construction cycle between engine and scheduler.
func (e *AuctionEngine) SetScheduler(scheduler domain.DeadlineScheduler) {
	e.scheduler = scheduler
}

// itemLock returns the mutex serializing all operations for one item.
func (e *AuctionEngine) itemLock(itemID string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	mu, ok := e.locks[itemID]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[itemID] = mu
	}
	return mu
}

// CreateItem registers a new listing in the Open state and schedules its
// natural-deadline close.
func (e *AuctionEngine) CreateItem(ctx context.Context, ownerID, title, description, category string,
	basePrice domain.Money, deadline time.Time, images []string) (*domain.Item, error) {

	now := e.clock.Now()
	if !deadline.After(now) {
		return nil, domain.ErrInvalidDeadline
	}

	item := &domain.Item{
		ID:          utils.GenerateID("item"),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Category:    category,
		Images:      images,
		BasePrice:   basePrice,
		Deadline:    deadline,
		State:       domain.AuctionOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.items.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if err := e.scheduler.ScheduleAuctionClose(ctx, item.ID, deadline); err != nil {
		return nil, fmt.Errorf("schedule auction close: %w", err)
	}

	e.refreshPriceCache(ctx, item, item.BasePrice, "")

	e.log.Info("Item created", "item_id", item.ID, "owner_id", ownerID,
		"base_price", basePrice.String(), "deadline", deadline)
	return item, nil
}

// GetItem returns the bidding-relevant projection of a listing.
func (e *AuctionEngine) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return e.items.GetItem(ctx, itemID)
}

// ItemsByOwner lists a seller's items.
func (e *AuctionEngine) ItemsByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	return e.items.GetItemsByOwner(ctx, ownerID)
}

// PlaceBid validates and records a bid. On success it returns the accepted
// bid together with the new current-highest amount. The accepted bid and
// its effect on the advertised price become visible atomically: both happen
// under the item lock.
func (e *AuctionEngine) PlaceBid(ctx context.Context, itemID, bidderID string, amount domain.Money) (*domain.Bid, domain.Money, error) {
	mu := e.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	item, err := e.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, domain.Money{}, err
	}

	now := e.clock.Now()
	if err := e.finalizeIfExpired(ctx, item, now); err != nil {
		return nil, domain.Money{}, err
	}
	if !e.clock.IsOpen(item, now) {
		return nil, domain.Money{}, domain.ErrAuctionClosed
	}

	// Both price floors are enforced; the stricter one wins. With no bids
	// the current highest equals the base price, so equal amounts fail the
	// base-price check first.
	if !amount.GreaterThan(item.BasePrice) {
		return nil, domain.Money{}, domain.ErrBelowBasePrice
	}

	bid, err := e.ledger.Append(ctx, item, bidderID, amount, now)
	if err != nil {
		return nil, domain.Money{}, err
	}

	e.refreshPriceCache(ctx, item, bid.Amount, bid.BidderID)
	e.publishEvent(ctx, &domain.BidEvent{
		Type:         domain.BidAccepted,
		ItemID:       itemID,
		BidderID:     bidderID,
		Amount:       bid.Amount.String(),
		CurrentPrice: bid.Amount.String(),
		Timestamp:    now,
	})

	e.log.Info("Bid accepted", "item_id", itemID, "bidder_id", bidderID, "amount", amount.String())
	return bid, bid.Amount, nil
}

// StopAuction lets the owning seller terminate an open auction early,
// either selling to the current highest bidder or deleting the listing.
func (e *AuctionEngine) StopAuction(ctx context.Context, itemID, callerID string, action domain.StopAction) (*domain.StopOutcome, error) {
	mu := e.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	item, err := e.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != callerID {
		return nil, domain.ErrNotAuthorized
	}
	if action != domain.StopActionSell && action != domain.StopActionDelete {
		return nil, domain.ErrInvalidAction
	}

	now := e.clock.Now()
	if err := e.finalizeIfExpired(ctx, item, now); err != nil {
		return nil, err
	}
	if item.State != domain.AuctionOpen {
		return nil, domain.ErrAuctionAlreadyClosed
	}

	switch action {
	case domain.StopActionSell:
		return e.stopSell(ctx, item, now)
	default:
		return e.stopDelete(ctx, item, now)
	}
}

// stopSell forces expiry so the current highest bidder wins immediately.
// With no bids there is no winner and the outcome degrades to ClosedUnsold,
// matching what natural expiry of a bidless item produces.
func (e *AuctionEngine) stopSell(ctx context.Context, item *domain.Item, now time.Time) (*domain.StopOutcome, error) {
	e.clock.ForceExpire(item, now)
	if err := e.items.UpdateItemDeadline(ctx, item.ID, item.Deadline); err != nil {
		return nil, fmt.Errorf("persist deadline: %w", err)
	}

	top, err := e.ledger.TopBid(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	target := domain.AuctionClosedSold
	if top == nil {
		target = domain.AuctionClosedUnsold
	}
	next, err := item.State.Transition(target)
	if err != nil {
		return nil, err
	}
	if err := e.items.UpdateItemState(ctx, item.ID, next); err != nil {
		return nil, fmt.Errorf("persist state: %w", err)
	}
	item.State = next

	if err := e.scheduler.CancelSchedule(ctx, item.ID); err != nil {
		e.log.Error("Failed to cancel close schedule", "item_id", item.ID, "error", err)
	}

	outcome := &domain.StopOutcome{State: next}
	if top != nil {
		outcome.Winner = &domain.Winner{BidderID: top.BidderID, Amount: top.Amount}
	}

	e.refreshClosedPriceCache(ctx, item, top)
	e.publishEvent(ctx, &domain.BidEvent{
		Type:      domain.AuctionEnded,
		ItemID:    item.ID,
		Timestamp: now,
	})

	e.log.Info("Auction stopped and sold", "item_id", item.ID, "state", next.String())
	return outcome, nil
}

// stopDelete removes the listing from the catalog. Historical bids are not
// cascaded here; they remain in the ledger as an audit trail.
func (e *AuctionEngine) stopDelete(ctx context.Context, item *domain.Item, now time.Time) (*domain.StopOutcome, error) {
	next, err := item.State.Transition(domain.AuctionDeleted)
	if err != nil {
		return nil, err
	}

	if err := e.items.DeleteItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	item.State = next

	if err := e.scheduler.CancelSchedule(ctx, item.ID); err != nil {
		e.log.Error("Failed to cancel close schedule", "item_id", item.ID, "error", err)
	}

	e.publishEvent(ctx, &domain.BidEvent{
		Type:      domain.AuctionEnded,
		ItemID:    item.ID,
		Timestamp: now,
	})

	e.log.Info("Auction deleted", "item_id", item.ID)
	return &domain.StopOutcome{State: next}, nil
}

// Winner reports the closed auction's highest bidder, or nil when the item
// closed without bids.
func (e *AuctionEngine) Winner(ctx context.Context, itemID string) (*domain.Winner, error) {
	mu := e.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	item, err := e.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	if err := e.finalizeIfExpired(ctx, item, now); err != nil {
		return nil, err
	}
	if item.State == domain.AuctionOpen {
		return nil, domain.ErrAuctionStillOpen
	}

	top, err := e.ledger.TopBid(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, nil
	}
	return &domain.Winner{BidderID: top.BidderID, Amount: top.Amount}, nil
}

// Bids returns the item's leaderboard, amount-descending. History survives
// listing deletion: when the catalog row is gone, any ledger entries are
// still served.
func (e *AuctionEngine) Bids(ctx context.Context, itemID string) ([]*domain.Bid, error) {
	if _, err := e.items.GetItem(ctx, itemID); err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		history, lerr := e.ledger.History(ctx, itemID)
		if lerr != nil || len(history) == 0 {
			return nil, err
		}
		return history, nil
	}
	return e.ledger.History(ctx, itemID)
}

// BidsByBidder lists a buyer's bids across all items.
func (e *AuctionEngine) BidsByBidder(ctx context.Context, bidderID string) ([]*domain.Bid, error) {
	return e.ledger.repo.GetBidsForBidder(ctx, bidderID)
}

// FinalizeExpired is the scheduler hook: close the item if its deadline has
// passed. Idempotent; a job firing for an already closed or deleted item is
// a no-op.
func (e *AuctionEngine) FinalizeExpired(ctx context.Context, itemID string) error {
	mu := e.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	item, err := e.items.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil
		}
		return err
	}
	return e.finalizeIfExpired(ctx, item, e.clock.Now())
}

// finalizeIfExpired applies the natural-deadline transition lazily: an Open
// item whose deadline has passed becomes ClosedSold with at least one bid,
// ClosedUnsold otherwise. Caller must hold the item lock.
func (e *AuctionEngine) finalizeIfExpired(ctx context.Context, item *domain.Item, now time.Time) error {
	if item.State != domain.AuctionOpen || now.Before(item.Deadline) {
		return nil
	}

	hasBids, err := e.ledger.HasBids(ctx, item.ID)
	if err != nil {
		return err
	}

	target := domain.AuctionClosedUnsold
	if hasBids {
		target = domain.AuctionClosedSold
	}
	next, err := item.State.Transition(target)
	if err != nil {
		return err
	}
	if err := e.items.UpdateItemState(ctx, item.ID, next); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	item.State = next

	top, err := e.ledger.TopBid(ctx, item.ID)
	if err != nil {
		return err
	}
	e.refreshClosedPriceCache(ctx, item, top)
	e.publishEvent(ctx, &domain.BidEvent{
		Type:      domain.AuctionEnded,
		ItemID:    item.ID,
		Timestamp: now,
	})

	e.log.Info("Auction closed at deadline", "item_id", item.ID, "state", next.String())
	return nil
}

// publishEvent and the price cache refreshes are best-effort: the ledger is
// the source of truth and a broken fanout path must not reject a bid.
func (e *AuctionEngine) publishEvent(ctx context.Context, event *domain.BidEvent) {
	if err := e.eventPub.PublishBidEvent(ctx, event); err != nil {
		e.log.Error("Failed to publish bid event", "item_id", event.ItemID,
			"type", event.Type, "error", err)
	}
}

func (e *AuctionEngine) refreshPriceCache(ctx context.Context, item *domain.Item, price domain.Money, leaderID string) {
	if err := e.priceCache.SetCurrentPrice(ctx, item.ID, price.String(), leaderID, item.State); err != nil {
		e.log.Error("Failed to refresh price cache", "item_id", item.ID, "error", err)
	}
}

func (e *AuctionEngine) refreshClosedPriceCache(ctx context.Context, item *domain.Item, top *domain.Bid) {
	price := item.BasePrice
	leaderID := ""
	if top != nil {
		price = top.Amount
		leaderID = top.BidderID
	}
	e.refreshPriceCache(ctx, item, price, leaderID)
}
