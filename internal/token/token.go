// Package token は署名付きベアラートークンの発行と検証を提供する。
//
// トークンは自己完結型のJWT（HS256）で、サーバー側には保存しない。
// 検証は署名と有効期限のみで完結するため、リクエストごとのDBアクセスは発生しない。
// 署名鍵はプロセス起動時にConfigから1回だけ渡される。鍵をローテーションすると
// 発行済みの全トークンが無効になる（複数鍵の猶予期間はない）。
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer はベアラートークンの発行と検証を行う。
type Issuer struct {
	secret []byte
	expiry time.Duration

	// テスト用に差し替え可能な現在時刻
	clock func() time.Time
}

// NewIssuer はIssuerを生成する。
// expiryは発行するトークンの有効期間を指定する。
func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		expiry: expiry,
		clock:  time.Now,
	}
}

// Issue は指定ユーザーIDを主体とする署名付きトークンを発行する。
// クレームはsub（ユーザーID）、iat、expのみ。
func (i *Issuer) Issue(userID int64) (string, error) {
	now := i.clock()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、エンコードされたユーザーIDを返す。
// 署名不正・形式不正・期限切れのいずれもエラーを返す。
// 検証は (トークン, 現在時刻, 署名鍵) の純粋関数であり、外部I/Oを行わない。
func (i *Issuer) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}

	return userID, nil
}
