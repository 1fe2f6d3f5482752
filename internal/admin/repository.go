package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/payments"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// RepositoryPort abstracts the aggregate queries behind the admin surface.
type RepositoryPort interface {
	CountUsers(ctx context.Context) (int, error)
	CountListings(ctx context.Context) (int, error)
	CountListingsByStatus(ctx context.Context, status listings.Status) (int, error)
	CountPaymentsByStatus(ctx context.Context, status payments.Status) (int, error)
	RecentUsers(ctx context.Context, limit int) ([]RecentUser, error)
	ListListings(ctx context.Context, status listings.Status, limit, offset int) ([]listings.Listing, int, error)
	ListUsers(ctx context.Context, role auth.Role, limit, offset int) ([]ManagedUser, int, error)
	VerifyUser(ctx context.Context, id int64) (*ManagedUser, error)
	UpdateUserRole(ctx context.Context, id int64, role auth.Role) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *Repository) CountListings(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n)
	return n, err
}

func (r *Repository) CountListingsByStatus(ctx context.Context, status listings.Status) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (r *Repository) CountPaymentsByStatus(ctx context.Context, status payments.Status) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (r *Repository) RecentUsers(ctx context.Context, limit int) ([]RecentUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, COALESCE(email, ''), role, created_at
		FROM users ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RecentUser
	for rows.Next() {
		var u RecentUser
		var role string
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &role, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role, _ = auth.ParseRole(role)
		result = append(result, u)
	}
	return result, rows.Err()
}

const adminListingSelect = `
	SELECT l.id, l.title, l.description, l.price, l.currency, l.type, l.status,
	       l.province, l.city, COALESCE(l.commune, ''), COALESCE(l.exact_location, ''),
	       COALESCE(l.contact_phone, ''), COALESCE(l.contact_email, ''),
	       l.images, l.is_featured, l.view_count, l.user_id, l.category_id,
	       l.expires_at, l.created_at, l.updated_at,
	       u.first_name, u.last_name, u.is_verified,
	       c.name, c.slug,
	       (SELECT COUNT(*) FROM favorites f WHERE f.listing_id = l.id),
	       (SELECT COUNT(*) FROM reviews rv WHERE rv.listing_id = l.id)
	FROM listings l
	JOIN users u ON u.id = l.user_id
	JOIN categories c ON c.id = l.category_id`

func (r *Repository) ListListings(ctx context.Context, status listings.Status, limit, offset int) ([]listings.Listing, int, error) {
	where := ""
	countArgs := []interface{}{}
	args := []interface{}{}
	if status != "" {
		where = " WHERE l.status = $1"
		countArgs = append(countArgs, status)
		args = append(args, status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM listings l` + where
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s%s ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d",
		adminListingSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []listings.Listing
	for rows.Next() {
		var l listings.Listing
		err := rows.Scan(
			&l.ID, &l.Title, &l.Description, &l.Price, &l.Currency, &l.Type, &l.Status,
			&l.Province, &l.City, &l.Commune, &l.ExactLocation,
			&l.ContactPhone, &l.ContactEmail,
			&l.Images, &l.IsFeatured, &l.ViewCount, &l.UserID, &l.CategoryID,
			&l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt,
			&l.Seller.FirstName, &l.Seller.LastName, &l.Seller.IsVerified,
			&l.Category.Name, &l.Category.Slug,
			&l.FavoriteCount, &l.ReviewCount,
		)
		if err != nil {
			return nil, 0, err
		}
		l.Seller.ID = l.UserID
		l.Category.ID = l.CategoryID
		result = append(result, l)
	}
	return result, total, rows.Err()
}

const managedUserSelect = `
	SELECT u.id, COALESCE(u.email, ''), COALESCE(u.phone, ''), u.first_name,
	       u.last_name, u.role, u.is_verified, u.is_active,
	       COALESCE(u.province, ''), COALESCE(u.city, ''), u.created_at,
	       (SELECT COUNT(*) FROM listings l WHERE l.user_id = u.id),
	       (SELECT COUNT(*) FROM reviews rv WHERE rv.reviewer_id = u.id)
	FROM users u`

func (r *Repository) ListUsers(ctx context.Context, role auth.Role, limit, offset int) ([]ManagedUser, int, error) {
	where := ""
	countArgs := []interface{}{}
	args := []interface{}{}
	if role != "" {
		where = " WHERE u.role = $1"
		countArgs = append(countArgs, role)
		args = append(args, role)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s%s ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d",
		managedUserSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []ManagedUser
	for rows.Next() {
		u, err := scanManagedUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *u)
	}
	return result, total, rows.Err()
}

func (r *Repository) VerifyUser(ctx context.Context, id int64) (*ManagedUser, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return scanManagedUser(r.pool.QueryRow(ctx, managedUserSelect+" WHERE u.id = $1", id))
}

func (r *Repository) UpdateUserRole(ctx context.Context, id int64, role auth.Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanManagedUser(row pgx.Row) (*ManagedUser, error) {
	var u ManagedUser
	var role string
	err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.FirstName, &u.LastName, &role,
		&u.IsVerified, &u.IsActive, &u.Province, &u.City, &u.CreatedAt,
		&u.ListingCount, &u.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	u.Role, _ = auth.ParseRole(role)
	return &u, nil
}
