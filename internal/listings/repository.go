package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// RepositoryPort abstracts listing persistence for the service layer.
type RepositoryPort interface {
	List(ctx context.Context, f Filter) ([]Listing, int, error)
	FindByID(ctx context.Context, id int64) (*Listing, error)
	IncrementViewCount(ctx context.Context, id int64) error
	CategoryExists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Repository is the Postgres-backed implementation.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

const listingSelect = `
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

func (r *Repository) List(ctx context.Context, f Filter) ([]Listing, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	conditions = append(conditions, fmt.Sprintf("l.status = $%d", argPos))
	args = append(args, StatusApproved)
	argPos++

	if f.CategorySlug != "" {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argPos))
		args = append(args, f.CategorySlug)
		argPos++
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(l.title ILIKE $%d OR l.description ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}
	if f.Province != "" {
		conditions = append(conditions, fmt.Sprintf("l.province = $%d", argPos))
		args = append(args, f.Province)
		argPos++
	}
	if f.City != "" {
		conditions = append(conditions, fmt.Sprintf("l.city = $%d", argPos))
		args = append(args, f.City)
		argPos++
	}
	if f.Type != "" {
		conditions = append(conditions, fmt.Sprintf("l.type = $%d", argPos))
		args = append(args, f.Type)
		argPos++
	}
	if f.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("l.price >= $%d", argPos))
		args = append(args, *f.MinPrice)
		argPos++
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("l.price <= $%d", argPos))
		args = append(args, *f.MaxPrice)
		argPos++
	}
	if f.FeaturedOnly {
		conditions = append(conditions, "l.is_featured = TRUE")
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM listings l JOIN categories c ON c.id = l.category_id %s`, whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s %s ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`,
		listingSelect, whereClause, argPos, argPos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *l)
	}
	return result, total, rows.Err()
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*Listing, error) {
	row := r.pool.QueryRow(ctx, listingSelect+" WHERE l.id = $1", id)
	return scanListing(row)
}

func (r *Repository) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE listings SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (r *Repository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *Repository) Create(ctx context.Context, l *Listing) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO listings (title, description, price, currency, type, status,
			province, city, commune, exact_location, contact_phone, contact_email,
			images, user_id, category_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''),
			NULLIF($11, ''), NULLIF($12, ''), $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`,
		l.Title, l.Description, l.Price, l.Currency, l.Type, l.Status,
		l.Province, l.City, l.Commune, l.ExactLocation, l.ContactPhone, l.ContactEmail,
		l.Images, l.UserID, l.CategoryID, l.ExpiresAt,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *Repository) Update(ctx context.Context, l *Listing) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE listings SET
			title = $2, description = $3, price = $4, currency = $5, type = $6,
			province = $7, city = $8, commune = NULLIF($9, ''),
			exact_location = NULLIF($10, ''), contact_phone = NULLIF($11, ''),
			contact_email = NULLIF($12, ''), images = $13, updated_at = NOW()
		WHERE id = $1`,
		l.ID, l.Title, l.Description, l.Price, l.Currency, l.Type,
		l.Province, l.City, l.Commune, l.ExactLocation, l.ContactPhone,
		l.ContactEmail, l.Images,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExpireOverdue flips approved listings past their expiry to EXPIRED and
// reports how many rows changed.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at < $3`,
		StatusExpired, StatusApproved, now,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanListing(row pgx.Row) (*Listing, error) {
	var l Listing
	err := row.Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	l.Seller.ID = l.UserID
	l.Category.ID = l.CategoryID
	return &l, nil
}
