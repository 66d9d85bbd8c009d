package mysql

import (
	"context"
	"database/sql"

	"auction-marketplace/internal/domain"
)

// MySQLBidRepository is the append-only audit store behind the in-memory
// ledger. Rows are never updated or deleted.
type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

func (r *MySQLBidRepository) SaveBid(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, item_id, bidder_id, amount, placed_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		bid.ID, bid.ItemID, bid.BidderID, bid.Amount.String(), bid.PlacedAt)
	return err
}

func (r *MySQLBidRepository) GetBidsForItem(ctx context.Context, itemID string) ([]*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, placed_at
        FROM bids
        WHERE item_id = ?
        ORDER BY placed_at ASC
    `
	return r.queryBids(ctx, query, itemID)
}

func (r *MySQLBidRepository) GetBidsForBidder(ctx context.Context, bidderID string) ([]*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, placed_at
        FROM bids
        WHERE bidder_id = ?
        ORDER BY placed_at DESC
    `
	return r.queryBids(ctx, query, bidderID)
}

func (r *MySQLBidRepository) queryBids(ctx context.Context, query string, arg string) ([]*domain.Bid, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		var amount string

		err := rows.Scan(&bid.ID, &bid.ItemID, &bid.BidderID, &amount, &bid.PlacedAt)
		if err != nil {
			return nil, err
		}

		bid.Amount, err = domain.ParseMoney(amount)
		if err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}

	return bids, rows.Err()
}
