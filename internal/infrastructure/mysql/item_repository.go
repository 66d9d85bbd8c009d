package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"auction-marketplace/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	images, err := json.Marshal(item.Images)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO items (id, owner_id, title, description, category, images, base_price, deadline, state, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.OwnerID, item.Title, item.Description, item.Category,
		string(images), item.BasePrice.String(), item.Deadline,
		int(item.State), item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *MySQLItemRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `
        SELECT id, owner_id, title, description, category, images, base_price, deadline, state, created_at, updated_at
        FROM items WHERE id = ?
    `

	var item domain.Item
	var images, basePrice string
	var state int

	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.Category,
		&images, &basePrice, &item.Deadline, &state, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(images), &item.Images); err != nil {
		return nil, err
	}
	item.BasePrice, err = domain.ParseMoney(basePrice)
	if err != nil {
		return nil, err
	}
	item.State = domain.AuctionState(state)
	return &item, nil
}

func (r *MySQLItemRepository) UpdateItemState(ctx context.Context, itemID string, state domain.AuctionState) error {
	query := `UPDATE items SET state = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, int(state), time.Now(), itemID)
	return err
}

func (r *MySQLItemRepository) UpdateItemDeadline(ctx context.Context, itemID string, deadline time.Time) error {
	query := `UPDATE items SET deadline = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, deadline, time.Now(), itemID)
	return err
}

func (r *MySQLItemRepository) DeleteItem(ctx context.Context, itemID string) error {
	query := `DELETE FROM items WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, itemID)
	return err
}

func (r *MySQLItemRepository) GetItemsByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	query := `
        SELECT id, owner_id, title, description, category, images, base_price, deadline, state, created_at, updated_at
        FROM items WHERE owner_id = ? ORDER BY created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		var item domain.Item
		var images, basePrice string
		var state int

		err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.Category,
			&images, &basePrice, &item.Deadline, &state, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(images), &item.Images); err != nil {
			return nil, err
		}
		item.BasePrice, err = domain.ParseMoney(basePrice)
		if err != nil {
			return nil, err
		}
		item.State = domain.AuctionState(state)
		items = append(items, &item)
	}

	return items, rows.Err()
}
