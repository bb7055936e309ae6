package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"electric-backend/internal/errs"
	"electric-backend/internal/models"
)

type MessageRepository struct {
	DB *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{DB: db}
}

const messageColumns = `m.id, m.sender_id, m.receiver_id, m.body, m.is_read, m.read_at, m.created_at,
	s.id, s.name, s.username, s.role, s.mobile, s.area,
	r.id, r.name, r.username, r.role, r.mobile, r.area`

const messageJoins = `
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id`

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.IsRead, &m.ReadAt, &m.CreatedAt,
		&m.Sender.ID, &m.Sender.Name, &m.Sender.Username, &m.Sender.Role, &m.Sender.Mobile, &m.Sender.Area,
		&m.Receiver.ID, &m.Receiver.Name, &m.Receiver.Username, &m.Receiver.Role, &m.Receiver.Mobile, &m.Receiver.Area)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a message and returns it with both parties populated.
func (r *MessageRepository) Create(ctx context.Context, senderID, receiverID int64, body string) (*models.Message, error) {
	var id int64
	err := r.DB.QueryRow(ctx,
		`INSERT INTO messages (sender_id, receiver_id, body) VALUES ($1, $2, $3) RETURNING id`,
		senderID, receiverID, body).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	m, err := scanMessage(r.DB.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages m`+messageJoins+` WHERE m.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return m, err
}

// Thread returns the latest 100 messages between two users in chronological
// order. The inner query picks the newest slice, the outer flips it so the
// client renders oldest first.
func (r *MessageRepository) Thread(ctx context.Context, userA, userB int64) ([]*models.Message, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+messageColumns+`
		FROM (
			SELECT * FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2)
			   OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC
			LIMIT 100
		) m`+messageJoins+`
		ORDER BY m.created_at ASC`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

// AllForUser returns every message a user has sent or received, newest first.
func (r *MessageRepository) AllForUser(ctx context.Context, userID int64) ([]*models.Message, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages m`+messageJoins+`
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

// MarkRead flags every unread message from sender to receiver as read and
// returns how many rows changed.
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE messages
		SET is_read = true, read_at = CURRENT_TIMESTAMP
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = false`,
		receiverID, senderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UnreadCount returns the number of unread messages waiting for a user.
func (r *MessageRepository) UnreadCount(ctx context.Context, receiverID int64) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = false`,
		receiverID).Scan(&count)
	return count, err
}

func collectMessages(rows pgx.Rows) ([]*models.Message, error) {
	msgs := []*models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
