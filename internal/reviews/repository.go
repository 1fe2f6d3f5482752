package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// RepositoryPort abstracts review persistence.
type RepositoryPort interface {
	Create(ctx context.Context, rv *Review) error
	ListForListing(ctx context.Context, listingID int64, limit, offset int) ([]Review, int, error)
	AveragesForListing(ctx context.Context, listingID int64) (*Averages, error)
	ListingOwner(ctx context.Context, listingID int64) (int64, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, rv *Review) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (rating, comment, service_quality, communication,
			timeliness, reviewer_id, listing_id, seller_id)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		rv.Rating, rv.Comment, rv.ServiceQuality, rv.Communication,
		rv.Timeliness, rv.ReviewerID, rv.ListingID, rv.SellerID,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *Repository) ListForListing(ctx context.Context, listingID int64, limit, offset int) ([]Review, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE listing_id = $1`, listingID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.rating, COALESCE(rv.comment, ''), rv.service_quality,
		       rv.communication, rv.timeliness, rv.reviewer_id, rv.listing_id,
		       rv.seller_id, rv.created_at,
		       u.first_name, u.last_name, COALESCE(u.avatar, '')
		FROM reviews rv
		JOIN users u ON u.id = rv.reviewer_id
		WHERE rv.listing_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3`,
		listingID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Review
	for rows.Next() {
		var rv Review
		err := rows.Scan(
			&rv.ID, &rv.Rating, &rv.Comment, &rv.ServiceQuality,
			&rv.Communication, &rv.Timeliness, &rv.ReviewerID, &rv.ListingID,
			&rv.SellerID, &rv.CreatedAt,
			&rv.Reviewer.FirstName, &rv.Reviewer.LastName, &rv.Reviewer.Avatar,
		)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, rv)
	}
	return result, total, rows.Err()
}

func (r *Repository) AveragesForListing(ctx context.Context, listingID int64) (*Averages, error) {
	var avg Averages
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COALESCE(AVG(service_quality), 0),
		       COALESCE(AVG(communication), 0), COALESCE(AVG(timeliness), 0)
		FROM reviews WHERE listing_id = $1`,
		listingID,
	).Scan(&avg.Rating, &avg.ServiceQuality, &avg.Communication, &avg.Timeliness)
	if err != nil {
		return nil, err
	}
	return &avg, nil
}

// ListingOwner looks up the seller of a listing so a review can be pinned
// to them even if the listing later changes hands.
func (r *Repository) ListingOwner(ctx context.Context, listingID int64) (int64, error) {
	var ownerID int64
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM listings WHERE id = $1`, listingID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return ownerID, nil
}
