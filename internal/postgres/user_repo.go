package postgres

import (
	"context"

	"github.com/linkin-purry/chat-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository is the read-only view of the user collection owned by the
// account service. Message routing only needs existence checks.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Exists(ctx context.Context, id domain.UserID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`,
		int64(id)).Scan(&exists)
	return exists, err
}
