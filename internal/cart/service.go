// Package cart はショッピングカートのドメインロジックを提供する。
package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/shopmall/internal/model"
	"github.com/hitoshi/shopmall/internal/repository"
)

// Summary はカート内容と合計金額を表す。
type Summary struct {
	Items       []model.CartItem
	TotalAmount int64
}

// Service はカート操作のビジネスロジックを提供する。
// 数量は常に在庫数を上限とし、超過はエラーにする。
type Service struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewService はServiceを生成する。
func NewService(carts repository.CartRepository, products repository.ProductRepository) *Service {
	return &Service{
		carts:    carts,
		products: products,
	}
}

// GetCart はユーザーのカート内容と合計金額を返す。
func (s *Service) GetCart(ctx context.Context, userID int64) (*Summary, error) {
	items, err := s.carts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	var total int64
	for _, item := range items {
		total += item.TotalPrice
	}

	return &Summary{
		Items:       items,
		TotalAmount: total,
	}, nil
}

// AddItem は商品をカートに追加する。
// 既にカートにある商品は数量を加算する。加算後の数量が在庫を超える場合はエラー。
func (s *Service) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 1 {
		return model.NewInvalidQuantityError()
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return model.NewProductNotFoundError(productID)
	}

	newQuantity := quantity
	entry, err := s.carts.FindEntry(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to find cart entry: %w", err)
	}
	if entry != nil {
		newQuantity += entry.Quantity
	}

	if newQuantity > product.Stock {
		return model.NewOutOfStockError(product.Stock)
	}

	if err := s.carts.UpsertEntry(ctx, userID, productID, newQuantity); err != nil {
		return fmt.Errorf("failed to upsert cart entry: %w", err)
	}

	slog.Info("cart item added",
		slog.Int64("user_id", userID),
		slog.Int64("product_id", productID),
		slog.Int("quantity", newQuantity),
	)

	return nil
}

// UpdateQuantity はカート内商品の数量を指定値に変更する。
// カートに存在しない商品の場合はエラー。
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 1 {
		return model.NewInvalidQuantityError()
	}

	entry, err := s.carts.FindEntry(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to find cart entry: %w", err)
	}
	if entry == nil {
		return model.NewCartItemNotFoundError(productID)
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return model.NewProductNotFoundError(productID)
	}

	if quantity > product.Stock {
		return model.NewOutOfStockError(product.Stock)
	}

	if err := s.carts.UpsertEntry(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to update cart entry: %w", err)
	}

	return nil
}

// RemoveItem は商品をカートから削除する。
// カートに存在しない商品の場合はエラー。
func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) error {
	deleted, err := s.carts.Delete(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete cart entry: %w", err)
	}
	if !deleted {
		return model.NewCartItemNotFoundError(productID)
	}

	slog.Info("cart item removed",
		slog.Int64("user_id", userID),
		slog.Int64("product_id", productID),
	)

	return nil
}
