package postgres

import (
	"context"

	"github.com/linkin-purry/chat-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// Save appends one message. The timestamp comes from the database clock and
// the id is a sequence, so equal timestamps still order by insertion.
func (r *ChatRepository) Save(ctx context.Context, fromID, toID domain.UserID, body string) (*domain.ChatMessage, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO chat (from_id, to_id, message, timestamp)
		VALUES ($1, $2, $3, now())
		RETURNING id, from_id, to_id, message, timestamp
	`, int64(fromID), int64(toID), body)

	var (
		m        domain.ChatMessage
		from, to int64
	)
	if err := row.Scan(&m.ID, &from, &to, &m.Body, &m.SentAt); err != nil {
		return nil, err
	}
	m.FromID = domain.UserID(from)
	m.ToID = domain.UserID(to)
	return &m, nil
}

// History returns the conversation between the unordered pair {a, b} in
// ascending time order, insertion order breaking ties.
func (r *ChatRepository) History(ctx context.Context, a, b domain.UserID) ([]domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, from_id, to_id, message, timestamp
		FROM chat
		WHERE (from_id = $1 AND to_id = $2)
		   OR (from_id = $2 AND to_id = $1)
		ORDER BY timestamp ASC, id ASC
	`, int64(a), int64(b))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var (
			m        domain.ChatMessage
			from, to int64
		)
		if err := rows.Scan(&m.ID, &from, &to, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		m.FromID = domain.UserID(from)
		m.ToID = domain.UserID(to)
		out = append(out, m)
	}

	return out, rows.Err()
}
