package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
)

// Hand-rolled in-memory collaborators; behavior mirrors the mysql/redis
// implementations closely enough for engine and ledger tests.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memItemRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]*domain.Item)}
}

func cloneItem(item *domain.Item) *domain.Item {
	c := *item
	c.Images = append([]string(nil), item.Images...)
	return &c
}

func (r *memItemRepo) CreateItem(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memItemRepo) GetItem(_ context.Context, itemID string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (r *memItemRepo) UpdateItemState(_ context.Context, itemID string, state domain.AuctionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.State = state
	return nil
}

func (r *memItemRepo) UpdateItemDeadline(_ context.Context, itemID string, deadline time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Deadline = deadline
	return nil
}

func (r *memItemRepo) DeleteItem(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, itemID)
	return nil
}

func (r *memItemRepo) GetItemsByOwner(_ context.Context, ownerID string) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Item
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}

type memBidRepo struct {
	mu       sync.Mutex
	bids     []*domain.Bid
	failSave bool
}

func newMemBidRepo() *memBidRepo {
	return &memBidRepo{}
}

func (r *memBidRepo) SaveBid(_ context.Context, bid *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errors.New("bid store unavailable")
	}
	c := *bid
	r.bids = append(r.bids, &c)
	return nil
}

func (r *memBidRepo) GetBidsForItem(_ context.Context, itemID string) ([]*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Bid
	for _, bid := range r.bids {
		if bid.ItemID == itemID {
			c := *bid
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memBidRepo) GetBidsForBidder(_ context.Context, bidderID string) ([]*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Bid
	for _, bid := range r.bids {
		if bid.BidderID == bidderID {
			c := *bid
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memBidRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bids)
}

type memScheduler struct {
	mu        sync.Mutex
	scheduled []string
	cancelled []string
}

func newMemScheduler() *memScheduler {
	return &memScheduler{}
}

func (s *memScheduler) ScheduleAuctionClose(_ context.Context, itemID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, itemID)
	return nil
}

func (s *memScheduler) CancelSchedule(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, itemID)
	return nil
}

func (s *memScheduler) Start(_ context.Context) error { return nil }

func (s *memScheduler) Stop() error { return nil }

type memPublisher struct {
	mu     sync.Mutex
	events []*domain.BidEvent
}

func newMemPublisher() *memPublisher {
	return &memPublisher{}
}

func (p *memPublisher) PublishBidEvent(_ context.Context, event *domain.BidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := *event
	p.events = append(p.events, &c)
	return nil
}

func (p *memPublisher) eventsOfType(t domain.BidEventType) []*domain.BidEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*domain.BidEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type memPriceCache struct {
	mu     sync.Mutex
	prices map[string]string
}

func newMemPriceCache() *memPriceCache {
	return &memPriceCache{prices: make(map[string]string)}
}

func (c *memPriceCache) SetCurrentPrice(_ context.Context, itemID string, price string, _ string, _ domain.AuctionState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[itemID] = price
	return nil
}

func (c *memPriceCache) GetCurrentPrice(_ context.Context, itemID string) (string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prices[itemID], "", nil
}
