package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/shopmall/internal/cart"
	"github.com/hitoshi/shopmall/internal/middleware"
	"github.com/hitoshi/shopmall/internal/model"
)

// CartServiceInterface はカートハンドラーが必要とするサービスインターフェース。
type CartServiceInterface interface {
	GetCart(ctx context.Context, userID int64) (*cart.Summary, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, productID int64) error
}

// CartHandler はショッピングカートのHTTPハンドラー。
type CartHandler struct {
	service CartServiceInterface
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(service CartServiceInterface) *CartHandler {
	return &CartHandler{service: service}
}

// cartItemResponse はカート内の1商品のレスポンス。
type cartItemResponse struct {
	CartID     int64  `json:"cart_id"`
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"image_url"`
	Stock      int    `json:"stock"`
	TotalPrice int64  `json:"total_price"`
}

// cartResponse はカート全体のレスポンス。
type cartResponse struct {
	Items       []cartItemResponse `json:"items"`
	TotalAmount int64              `json:"totalAmount"`
}

// toCartResponse はcart.Summaryをレスポンス型に変換する。
func toCartResponse(summary *cart.Summary) cartResponse {
	items := make([]cartItemResponse, len(summary.Items))
	for i, item := range summary.Items {
		items[i] = cartItemResponse{
			CartID:     item.CartID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			ImageURL:   item.ImageURL,
			Stock:      item.Stock,
			TotalPrice: item.TotalPrice,
		}
	}
	return cartResponse{
		Items:       items,
		TotalAmount: summary.TotalAmount,
	}
}

// addItemRequest はカート追加リクエストのボディ。
// quantity省略時は1として扱う。
type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// updateQuantityRequest は数量変更リクエストのボディ。
type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart は現在のユーザーのカート内容を返す。
// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	summary, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(summary))
}

// AddItem は商品をカートに追加する。
// POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.service.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Item added to cart",
	})
}

// UpdateQuantity はカート内商品の数量を変更する。
// PUT /api/cart/{productID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCartItemNotFoundError(0))
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Cart item updated",
	})
}

// RemoveItem は商品をカートから削除する。
// DELETE /api/cart/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCartItemNotFoundError(0))
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, productID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
