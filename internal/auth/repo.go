package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, COALESCE(email,''), COALESCE(phone,''), password_hash, first_name, last_name, COALESCE(avatar,''), role, is_active, is_verified, COALESCE(province,''), COALESCE(city,''), created_at, updated_at`

// FindByID fetches the live user record for one request.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByIdentifier fetches a user by email or phone, whichever is set.
func (r *PGRepository) FindByIdentifier(ctx context.Context, email, phone string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users
		WHERE ($1 <> '' AND email = $1) OR ($2 <> '' AND phone = $2)
		LIMIT 1`, email, phone)
	return scanUser(row)
}

// Create inserts a new user record.
func (r *PGRepository) Create(ctx context.Context, user *User) (*User, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, `INSERT INTO users
		(email, phone, password_hash, first_name, last_name, role, is_active, is_verified, province, city, created_at, updated_at)
		VALUES (NULLIF($1,''), NULLIF($2,''), $3, $4, $5, $6, $7, $8, NULLIF($9,''), NULLIF($10,''), $11, $11)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Phone, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), user.IsActive, user.IsVerified, user.Province, user.City, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var role string
	err := row.Scan(
		&user.ID, &user.Email, &user.Phone, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Avatar, &role,
		&user.IsActive, &user.IsVerified, &user.Province, &user.City,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	parsed, ok := ParseRole(role)
	if !ok {
		parsed = RoleClient
	}
	user.Role = parsed
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
