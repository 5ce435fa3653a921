package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/shopmall/internal/model"
)

// ErrDuplicateEmail はローカル会員のメールアドレス重複を表す。
// usersテーブルの部分ユニークインデックス違反を検出した場合に返される。
var ErrDuplicateEmail = errors.New("email already registered")

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = pq.ErrorCode("23505")

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, name, COALESCE(email, ''), COALESCE(password_hash, ''),
	provider, COALESCE(provider_id, ''), COALESCE(phone, ''), COALESCE(address, ''),
	created_at, updated_at`

// scanUser は1行分のユーザーを読み取る。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Provider, &user.ProviderID, &user.Phone, &user.Address,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindLocalByEmail はprovider='local'のユーザーをメールアドレスで検索する。
// 見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindLocalByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE provider = $1 AND email = $2`,
		model.ProviderLocal, email,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find local user by email: %w", err)
	}
	return user, nil
}

// FindByProviderID は外部IdPの (provider, provider_id) でユーザーを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE provider = $1 AND provider_id = $2`,
		provider, providerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by provider ID: %w", err)
	}
	return user, nil
}

// CreateLocal はローカル会員を作成し、採番されたIDを返す。
// ユニークインデックス違反はErrDuplicateEmailにマッピングする。
// 同一メールの同時登録はこの制約がシリアライゼーションポイントとなる。
func (r *PostgresUserRepo) CreateLocal(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, provider)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, email, passwordHash, model.ProviderLocal,
	).Scan(&id)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to insert local user: %w", err)
	}

	return id, nil
}

// CreateFederated は外部IdP会員を作成して返す。
// emailが空文字列の場合はNULLとして保存する。
func (r *PostgresUserRepo) CreateFederated(ctx context.Context, name, email, provider, providerID string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, provider, provider_id)
		 VALUES ($1, NULLIF($2, ''), $3, $4)
		 RETURNING `+userColumns,
		name, email, provider, providerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert federated user: %w", err)
	}
	return user, nil
}

// UpdateProfile はプロフィールを部分更新し、更新後のユーザーを返す。
// nilのフィールドは現在値を維持する。対象が存在しない場合はnilを返す。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users
		 SET name       = COALESCE($2, name),
		     email      = COALESCE($3, email),
		     phone      = COALESCE($4, phone),
		     address    = COALESCE($5, address),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, update.Name, update.Email, update.Phone, update.Address,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
