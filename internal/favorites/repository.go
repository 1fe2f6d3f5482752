package favorites

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// RepositoryPort abstracts favorite persistence.
type RepositoryPort interface {
	Add(ctx context.Context, userID, listingID int64) (*Favorite, error)
	Remove(ctx context.Context, userID, listingID int64) error
	ListForUser(ctx context.Context, userID int64) ([]Favorite, error)
	ListingExists(ctx context.Context, listingID int64) (bool, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Add(ctx context.Context, userID, listingID int64) (*Favorite, error) {
	fav := &Favorite{UserID: userID, ListingID: listingID}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO favorites (user_id, listing_id)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		userID, listingID,
	).Scan(&fav.ID, &fav.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return fav, nil
}

func (r *Repository) Remove(ctx context.Context, userID, listingID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.user_id, f.listing_id, f.created_at,
		       l.title, l.description, l.price, l.currency, l.type, l.status,
		       l.province, l.city, l.images, l.view_count, l.user_id, l.category_id,
		       l.expires_at, l.created_at,
		       u.first_name, u.last_name, u.is_verified,
		       c.name, c.slug,
		       (SELECT COUNT(*) FROM favorites ff WHERE ff.listing_id = l.id),
		       (SELECT COUNT(*) FROM reviews rv WHERE rv.listing_id = l.id)
		FROM favorites f
		JOIN listings l ON l.id = f.listing_id
		JOIN users u ON u.id = l.user_id
		JOIN categories c ON c.id = l.category_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Favorite
	for rows.Next() {
		var fav Favorite
		l := &fav.Listing
		err := rows.Scan(
			&fav.ID, &fav.UserID, &fav.ListingID, &fav.CreatedAt,
			&l.Title, &l.Description, &l.Price, &l.Currency, &l.Type, &l.Status,
			&l.Province, &l.City, &l.Images, &l.ViewCount, &l.UserID, &l.CategoryID,
			&l.ExpiresAt, &l.CreatedAt,
			&l.Seller.FirstName, &l.Seller.LastName, &l.Seller.IsVerified,
			&l.Category.Name, &l.Category.Slug,
			&l.FavoriteCount, &l.ReviewCount,
		)
		if err != nil {
			return nil, err
		}
		l.ID = fav.ListingID
		l.Seller.ID = l.UserID
		l.Category.ID = l.CategoryID
		result = append(result, fav)
	}
	return result, rows.Err()
}

func (r *Repository) ListingExists(ctx context.Context, listingID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`, listingID).Scan(&exists)
	return exists, err
}
