package model

import "time"

// Product は商品を表す。
// 価格は最小通貨単位（円）の整数で保持する。
type Product struct {
	ID          int64
	Name        string
	Price       int64
	Description string
	ImageURL    string
	Category    string
	Stock       int
	CreatedAt   time.Time
}
