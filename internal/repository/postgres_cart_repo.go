package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/shopmall/internal/model"
)

// PostgresCartRepo はPostgreSQLを使用したカートリポジトリ。
type PostgresCartRepo struct {
	db *sql.DB
}

// NewPostgresCartRepo はPostgresCartRepoを生成する。
func NewPostgresCartRepo(db *sql.DB) *PostgresCartRepo {
	return &PostgresCartRepo{db: db}
}

// ListByUserID はユーザーのカート内容を商品情報と結合して返す。
// total_priceは単価×数量をSQL側で計算する。
func (r *PostgresCartRepo) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.product_id, p.name, p.price, c.quantity, p.image_url, p.stock,
		        p.price * c.quantity AS total_price
		 FROM cart_items c
		 JOIN products p ON p.id = c.product_id
		 WHERE c.user_id = $1
		 ORDER BY c.created_at ASC, c.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(
			&item.CartID, &item.ProductID, &item.Name, &item.Price,
			&item.Quantity, &item.ImageURL, &item.Stock, &item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return items, nil
}

// FindEntry はユーザーと商品の組でカート行を検索する。見つからない場合はnilを返す。
func (r *PostgresCartRepo) FindEntry(ctx context.Context, userID, productID int64) (*model.CartEntry, error) {
	entry := &model.CartEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, product_id, quantity, created_at, updated_at
		 FROM cart_items
		 WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(
		&entry.ID, &entry.UserID, &entry.ProductID, &entry.Quantity,
		&entry.CreatedAt, &entry.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart entry: %w", err)
	}

	return entry, nil
}

// UpsertEntry はカート行を指定数量で作成または上書きする。
// (user_id, product_id) のユニーク制約を利用した冪等なUPSERT。
func (r *PostgresCartRepo) UpsertEntry(ctx context.Context, userID, productID int64, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		userID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cart entry: %w", err)
	}
	return nil
}

// Delete はカート行を削除する。削除対象が存在しない場合はfalseを返す。
func (r *PostgresCartRepo) Delete(ctx context.Context, userID, productID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete cart entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ CartRepository = (*PostgresCartRepo)(nil)
