package payments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
)

// RepositoryPort abstracts payment persistence.
type RepositoryPort interface {
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id int64) (*Payment, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]Payment, int, error)
	SetOutcome(ctx context.Context, id int64, status Status, txnRef string) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

const paymentSelect = `
	SELECT p.id, p.user_id, p.listing_id, p.amount, p.currency, p.payment_type,
	       p.provider, p.phone_number, COALESCE(p.description, ''), p.status,
	       COALESCE(p.transaction_id, ''), COALESCE(l.title, ''),
	       p.created_at, p.updated_at
	FROM payments p
	LEFT JOIN listings l ON l.id = p.listing_id`

func (r *Repository) Create(ctx context.Context, p *Payment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO payments (user_id, listing_id, amount, currency, payment_type,
			provider, phone_number, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
		RETURNING id, created_at, updated_at`,
		p.UserID, p.ListingID, p.Amount, p.Currency, p.PaymentType,
		p.Provider, p.PhoneNumber, p.Description, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, paymentSelect+" WHERE p.id = $1", id))
}

func (r *Repository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]Payment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		paymentSelect+` WHERE p.user_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	return result, total, rows.Err()
}

func (r *Repository) SetOutcome(ctx context.Context, id int64, status Status, txnRef string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payments SET status = $2, transaction_id = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1`,
		id, status, txnRef,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.UserID, &p.ListingID, &p.Amount, &p.Currency, &p.PaymentType,
		&p.Provider, &p.PhoneNumber, &p.Description, &p.Status,
		&p.TransactionID, &p.ListingTitle,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
