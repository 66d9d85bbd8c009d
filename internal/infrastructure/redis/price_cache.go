package redis

import (
	"context"
	"fmt"
	"time"

	"auction-marketplace/internal/domain"

	"github.com/go-redis/redis/v8"
)

// RedisPriceCache mirrors each item's advertised price and leading bidder
// for cheap reads by the live service. It is advisory: the engine's ledger
// remains the source of truth and refreshes this hash after every mutation.
type RedisPriceCache struct {
	client *redis.Client
}

func NewRedisPriceCache(client *redis.Client) *RedisPriceCache {
	return &RedisPriceCache{client: client}
}

func priceKey(itemID string) string {
	return fmt.Sprintf("item:%s:price", itemID)
}

func (r *RedisPriceCache) SetCurrentPrice(ctx context.Context, itemID string, price string, leaderID string, state domain.AuctionState) error {
	return r.client.HSet(ctx, priceKey(itemID),
		"current_price", price,
		"leader_id", leaderID,
		"state", state.String(),
		"last_updated", time.Now().Unix(),
	).Err()
}

func (r *RedisPriceCache) GetCurrentPrice(ctx context.Context, itemID string) (string, string, error) {
	result, err := r.client.HMGet(ctx, priceKey(itemID), "current_price", "leader_id").Result()
	if err != nil {
		return "", "", err
	}

	price := ""
	leaderID := ""
	if result[0] != nil {
		price = result[0].(string)
	}
	if result[1] != nil {
		leaderID = result[1].(string)
	}
	return price, leaderID, nil
}
