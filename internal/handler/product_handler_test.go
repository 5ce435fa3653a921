package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/shopmall/internal/model"
)

// --- モック定義 ---

type mockProductService struct {
	listProductsFn func(ctx context.Context) ([]*model.Product, error)
	getProductFn   func(ctx context.Context, productID int64) (*model.Product, error)
}

func (m *mockProductService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx)
	}
	return nil, nil
}

func (m *mockProductService) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(ctx, productID)
	}
	return nil, model.NewProductNotFoundError(productID)
}

var _ ProductServiceInterface = (*mockProductService)(nil)

// productTestRouter はURLパラメータを解決するためchi経由でハンドラーを呼ぶ。
func productTestRouter(h *ProductHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	return r
}

// --- テスト ---

func TestProductHandler_ListProducts(t *testing.T) {
	svc := &mockProductService{
		listProductsFn: func(_ context.Context) ([]*model.Product, error) {
			return []*model.Product{
				{ID: 1, Name: "ワイヤレスイヤホン", Price: 8900, Stock: 12},
				{ID: 2, Name: "スマートウォッチ", Price: 24800, Stock: 5},
			}, nil
		},
	}
	router := productTestRouter(NewProductHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Products []productResponse `json:"products"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(resp.Products) != 2 {
		t.Errorf("len(products) = %d, want 2", len(resp.Products))
	}
	if resp.Products[0].Name != "ワイヤレスイヤホン" {
		t.Errorf("name = %q", resp.Products[0].Name)
	}
}

func TestProductHandler_GetProduct(t *testing.T) {
	svc := &mockProductService{
		getProductFn: func(_ context.Context, productID int64) (*model.Product, error) {
			return &model.Product{ID: productID, Name: "スマートウォッチ", Price: 24800}, nil
		},
	}
	router := productTestRouter(NewProductHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/products/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp productResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.ID != 2 || resp.Price != 24800 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestProductHandler_GetProduct_NotFound(t *testing.T) {
	router := productTestRouter(NewProductHandler(&mockProductService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/products/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestProductHandler_GetProduct_NonNumericID(t *testing.T) {
	router := productTestRouter(NewProductHandler(&mockProductService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
