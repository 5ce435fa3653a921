// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/shopmall/internal/model"
)

// ProfileUpdate はプロフィールの部分更新を表す。
// nilのフィールドは変更しない。
type ProfileUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindLocalByEmail はprovider='local'のユーザーをメールアドレスで検索する。
	// 見つからない場合はnilを返す。
	FindLocalByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByProviderID は外部IdPの (provider, provider_id) でユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)

	// CreateLocal はローカル会員を作成し、採番されたIDを返す。
	// メールアドレスが既に使用されている場合はErrDuplicateEmailを返す。
	CreateLocal(ctx context.Context, name, email, passwordHash string) (int64, error)

	// CreateFederated は外部IdP会員を作成して返す。
	// emailは空文字列の場合NULLとして保存される。
	CreateFederated(ctx context.Context, name, email, provider, providerID string) (*model.User, error)

	// UpdateProfile はプロフィールを部分更新し、更新後のユーザーを返す。
	// 対象が存在しない場合はnilを返す。
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*model.User, error)
}

// ProductRepository は商品データの永続化インターフェース。
type ProductRepository interface {
	// List は全商品を新しい順に返す。
	List(ctx context.Context) ([]*model.Product, error)

	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Product, error)
}

// CartRepository はカートデータの永続化インターフェース。
type CartRepository interface {
	// ListByUserID はユーザーのカート内容を商品情報と結合して返す。
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	// FindEntry はユーザーと商品の組でカート行を検索する。見つからない場合はnilを返す。
	FindEntry(ctx context.Context, userID, productID int64) (*model.CartEntry, error)

	// UpsertEntry はカート行を指定数量で作成または上書きする。
	UpsertEntry(ctx context.Context, userID, productID int64, quantity int) error

	// Delete はカート行を削除する。削除対象が存在しない場合はfalseを返す。
	Delete(ctx context.Context, userID, productID int64) (bool, error)
}
