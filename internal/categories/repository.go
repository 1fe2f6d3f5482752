package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// Repository defines persistence for the category tree.
type Repository interface {
	ListAll(ctx context.Context) ([]Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, category Category) (Category, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ListAll returns every category with its approved-listing count, roots and
// children alike, ordered by name. Tree assembly happens in the service.
func (r *repository) ListAll(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, COALESCE(c.name_fr,''), COALESCE(c.name_sw,''), c.slug, COALESCE(c.icon,''), c.parent_id, c.created_at,
		       COUNT(l.id) FILTER (WHERE l.status = 'APPROVED') AS listing_count
		FROM categories c
		LEFT JOIN listings l ON l.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.NameFr, &c.NameSw, &c.Slug, &c.Icon, &c.ParentID, &c.CreatedAt, &c.ListingCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FindBySlug fetches one category by its slug.
func (r *repository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(name_fr,''), COALESCE(name_sw,''), slug, COALESCE(icon,''), parent_id, created_at
		FROM categories WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Name, &c.NameFr, &c.NameSw, &c.Slug, &c.Icon, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a category, used by the seeder.
func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, name_fr, name_sw, slug, icon, parent_id)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), $4, NULLIF($5,''), $6)
		RETURNING id, created_at`,
		category.Name, category.NameFr, category.NameSw, category.Slug, category.Icon, category.ParentID).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return category, nil
}
