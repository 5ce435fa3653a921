// Package product は商品カタログのドメインロジックを提供する。
package product

import (
	"context"
	"fmt"

	"github.com/hitoshi/shopmall/internal/model"
	"github.com/hitoshi/shopmall/internal/repository"
)

// Service は商品の一覧・詳細取得を提供する。
type Service struct {
	products repository.ProductRepository
}

// NewService はServiceを生成する。
func NewService(products repository.ProductRepository) *Service {
	return &Service{products: products}
}

// ListProducts は全商品を新しい順に返す。
func (s *Service) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct は指定IDの商品を返す。
func (s *Service) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return nil, model.NewProductNotFoundError(productID)
	}
	return product, nil
}
