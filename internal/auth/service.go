// Package auth はローカル認証とOAuth認証のビジネスロジックを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/shopmall/internal/model"
	"github.com/hitoshi/shopmall/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string // "google" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// TokenIssuer はベアラートークン発行のインターフェース。
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// Service は認証に関するビジネスロジックを提供する。
// ローカル会員登録・ログインと、OAuthコールバックのユーザー解決を担う。
type Service struct {
	oauth  OAuthProvider
	users  repository.UserRepository
	issuer TokenIssuer
}

// NewService はServiceを生成する。
func NewService(oauth OAuthProvider, users repository.UserRepository, issuer TokenIssuer) *Service {
	return &Service{
		oauth:  oauth,
		users:  users,
		issuer: issuer,
	}
}

// Signup はローカル会員を登録し、採番されたユーザーIDを返す。
// パスワードはbcryptでハッシュ化して保存し、平文は保持しない。
// 同一メールアドレスのローカル会員が既に存在する場合はEmailTakenエラーを返す。
func (s *Service) Signup(ctx context.Context, email, password, name string) (int64, error) {
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return 0, model.NewMissingFieldsError(missing...)
	}

	existing, err := s.users.FindLocalByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return 0, model.NewEmailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.users.CreateLocal(ctx, name, email, string(hash))
	if err != nil {
		// 事前チェックとINSERTの間に同一メールで登録された場合
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return 0, model.NewEmailTakenError()
		}
		return 0, fmt.Errorf("failed to create local user: %w", err)
	}

	slog.Info("local user signed up",
		slog.Int64("user_id", userID),
	)

	return userID, nil
}

// Login はローカル会員を認証し、ベアラートークンを発行する。
// メール未登録とパスワード不一致は区別せず、同一の認証エラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return "", model.NewMissingFieldsError(missing...)
	}

	user, err := s.users.FindLocalByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.NewInvalidCredentialsError()
	}

	tokenString, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("local user logged in",
		slog.Int64("user_id", user.ID),
	)

	return tokenString, nil
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、ベアラートークンを発行する。
// 未登録ユーザーの場合は外部IdP会員として自動作成する。
// ユーザー解決に失敗した場合はトークンを発行しない（フェイルクローズ）。
func (s *Service) HandleCallback(ctx context.Context, code string) (string, error) {
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	user, err := s.resolveFederatedUser(ctx, userInfo)
	if err != nil {
		return "", err
	}

	tokenString, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return tokenString, nil
}

// resolveFederatedUser は外部プロファイルをローカルユーザーに解決する。
// (provider, provider_user_id) の一致を正とし、プロバイダー側での
// メールアドレスや表示名の変更は再同期しない。
// 検索・作成のいずれの失敗もそのまま呼び出し元に伝播する。
func (s *Service) resolveFederatedUser(ctx context.Context, userInfo *OAuthUserInfo) (*model.User, error) {
	user, err := s.users.FindByProviderID(ctx, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find federated user: %w", err)
	}

	if user != nil {
		slog.Info("existing user logged in",
			slog.Int64("user_id", user.ID),
			slog.String("provider", userInfo.Provider),
		)
		return user, nil
	}

	created, err := s.users.CreateFederated(ctx, userInfo.Name, userInfo.Email, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}

	slog.Info("new federated user created",
		slog.Int64("user_id", created.ID),
		slog.String("provider", userInfo.Provider),
	)

	return created, nil
}
