package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresProductRepoはProductRepositoryインターフェースを満たすことを検証
func TestPostgresProductRepo_ImplementsInterface(t *testing.T) {
	var _ ProductRepository = (*PostgresProductRepo)(nil)
}

// PostgresCartRepoはCartRepositoryインターフェースを満たすことを検証
func TestPostgresCartRepo_ImplementsInterface(t *testing.T) {
	var _ CartRepository = (*PostgresCartRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresProductRepoが正しく初期化されることを検証
func TestNewPostgresProductRepo_Initializes(t *testing.T) {
	repo := NewPostgresProductRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCartRepoが正しく初期化されることを検証
func TestNewPostgresCartRepo_Initializes(t *testing.T) {
	repo := NewPostgresCartRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// ユニットテスト: 一意制約違反がErrDuplicateEmailとして識別できること
// （DB接続なしでエラーマッピングのみ検証）
func TestUniqueViolation_MapsToErrDuplicateEmail(t *testing.T) {
	pqErr := &pq.Error{Code: uniqueViolation}

	var target *pq.Error
	if !errors.As(error(pqErr), &target) || target.Code != uniqueViolation {
		t.Fatal("unique violation error must be detectable via errors.As")
	}

	if !errors.Is(ErrDuplicateEmail, ErrDuplicateEmail) {
		t.Error("ErrDuplicateEmail must match itself as a sentinel")
	}
}
