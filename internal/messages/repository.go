package messages

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort abstracts message persistence.
type RepositoryPort interface {
	Create(ctx context.Context, m *Message) error
	Conversation(ctx context.Context, userID, otherID int64) ([]Message, error)
	MarkRead(ctx context.Context, senderID, receiverID int64) error
	Conversations(ctx context.Context, userID int64) ([]Conversation, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, m *Message) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO messages (content, sender_id, receiver_id, listing_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		m.Content, m.SenderID, m.ReceiverID, m.ListingID,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *Repository) Conversation(ctx context.Context, userID, otherID int64) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.content, m.sender_id, m.receiver_id, m.listing_id,
		       m.is_read, m.created_at,
		       s.first_name, s.last_name, COALESCE(s.avatar, ''),
		       rc.first_name, rc.last_name, COALESCE(rc.avatar, '')
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users rc ON rc.id = m.receiver_id
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC`,
		userID, otherID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Message
	for rows.Next() {
		var m Message
		err := rows.Scan(
			&m.ID, &m.Content, &m.SenderID, &m.ReceiverID, &m.ListingID,
			&m.IsRead, &m.CreatedAt,
			&m.Sender.FirstName, &m.Sender.LastName, &m.Sender.Avatar,
			&m.Receiver.FirstName, &m.Receiver.LastName, &m.Receiver.Avatar,
		)
		if err != nil {
			return nil, err
		}
		m.Sender.ID = m.SenderID
		m.Receiver.ID = m.ReceiverID
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *Repository) MarkRead(ctx context.Context, senderID, receiverID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = FALSE`,
		senderID, receiverID,
	)
	return err
}

// Conversations returns one row per counterpart with the latest message
// and the number of their messages the user has not read yet.
func (r *Repository) Conversations(ctx context.Context, userID int64) ([]Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (other_id)
		       other_id, u.first_name, u.last_name, COALESCE(u.avatar, ''),
		       m.content, m.created_at,
		       (SELECT COUNT(*) FROM messages um
		        WHERE um.sender_id = other_id AND um.receiver_id = $1 AND um.is_read = FALSE)
		FROM (
			SELECT *, CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_id
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		) m
		JOIN users u ON u.id = m.other_id
		ORDER BY other_id, m.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Conversation
	for rows.Next() {
		var c Conversation
		err := rows.Scan(
			&c.UserID, &c.User.FirstName, &c.User.LastName, &c.User.Avatar,
			&c.LastMessage, &c.LastMessageTime, &c.UnreadCount,
		)
		if err != nil {
			return nil, err
		}
		c.User.ID = c.UserID
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *Repository) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
