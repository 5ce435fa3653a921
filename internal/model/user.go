// Package model はドメインモデルを定義する。
package model

import "time"

// 認証プロバイダー種別。
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User は会員を表す。
// ローカル会員はPasswordHashを持ち、外部IdP会員はProviderIDを持つ。
// Emailは外部IdP会員の場合に空のことがある（プロバイダーがメールを返さないケース）。
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Provider     string
	ProviderID   string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLocal はローカル（メール＋パスワード）会員かどうかを返す。
func (u *User) IsLocal() bool {
	return u.Provider == ProviderLocal
}
