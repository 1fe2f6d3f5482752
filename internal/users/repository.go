package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// RepositoryPort defines data access methods for user profiles.
type RepositoryPort interface {
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*Profile, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const profileColumns = `id, COALESCE(email,''), COALESCE(phone,''), first_name, last_name, COALESCE(avatar,''), role, is_verified,
	COALESCE(province,''), COALESCE(city,''), COALESCE(commune,''), COALESCE(address,''),
	COALESCE(id_number,''), COALESCE(id_type,''), COALESCE(nif_number,''), created_at`

// GetProfile returns the profile for a user id.
func (r *Repository) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, id)
	return scanProfile(row)
}

// UpdateProfile applies the user-editable fields and returns the fresh profile.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET
			first_name = $2,
			last_name = $3,
			province = NULLIF($4,''),
			city = NULLIF($5,''),
			commune = NULLIF($6,''),
			address = NULLIF($7,''),
			updated_at = $8
		WHERE id = $1
		RETURNING `+profileColumns,
		id, update.FirstName, update.LastName, update.Province, update.City, update.Commune, update.Address, time.Now().UTC())
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.Phone, &p.FirstName, &p.LastName, &p.Avatar, &p.Role, &p.IsVerified,
		&p.Province, &p.City, &p.Commune, &p.Address,
		&p.IDNumber, &p.IDType, &p.NIFNumber, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ RepositoryPort = (*Repository)(nil)
