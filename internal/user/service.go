// Package user はプロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/shopmall/internal/model"
	"github.com/hitoshi/shopmall/internal/repository"
)

// Service はプロフィールの取得・更新を提供する。
// ユーザー入力のフィールドはすべてHTMLタグを除去してから保存する。
type Service struct {
	users  repository.UserRepository
	policy *bluemonday.Policy
}

// NewService はServiceを生成する。
func NewService(users repository.UserRepository) *Service {
	return &Service{
		users:  users,
		policy: bluemonday.StrictPolicy(),
	}
}

// ProfileUpdate はプロフィール更新リクエストを表す。
// nilのフィールドは変更しない。
type ProfileUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// GetProfile は指定ユーザーのプロフィールを返す。
func (s *Service) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile はプロフィールを部分更新し、更新後のユーザーを返す。
// 各フィールドはタグ除去と前後空白のトリムを行う。
// 名前を空に更新することはできない。
func (s *Service) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*model.User, error) {
	name := s.sanitize(update.Name)
	email := s.sanitize(update.Email)
	phone := s.sanitize(update.Phone)
	address := s.sanitize(update.Address)

	if name != nil && *name == "" {
		return nil, model.NewInvalidNameError()
	}
	if email != nil && !strings.Contains(*email, "@") {
		return nil, model.NewInvalidEmailError()
	}

	user, err := s.users.UpdateProfile(ctx, userID, repository.ProfileUpdate{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	slog.Info("profile updated",
		slog.Int64("user_id", userID),
	)

	return user, nil
}

// sanitize はフィールド値からHTMLタグを除去し前後の空白をトリムする。
// nilはそのままnilを返す。
func (s *Service) sanitize(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := strings.TrimSpace(s.policy.Sanitize(*v))
	return &cleaned
}
