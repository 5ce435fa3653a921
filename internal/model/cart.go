package model

import "time"

// CartEntry はcart_itemsテーブルの1行を表す。
// 商品情報とのJOIN結果はCartItemを使用する。
type CartEntry struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem はカート内の1商品を商品情報と結合したビュー。
// TotalPriceは単価×数量。
type CartItem struct {
	CartID     int64
	ProductID  int64
	Name       string
	Price      int64
	Quantity   int
	ImageURL   string
	Stock      int
	TotalPrice int64
}
