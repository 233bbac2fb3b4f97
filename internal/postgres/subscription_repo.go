package postgres

import (
	"context"

	"github.com/linkin-purry/chat-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert registers a push endpoint for ownerID. The endpoint is unique: a
// browser re-registering across login sessions updates keys and owner in
// place instead of duplicating. The conflict clause makes that atomic; the
// application never races a read-then-write.
func (r *SubscriptionRepository) Upsert(ctx context.Context, endpoint string, keys domain.PushSubscription, ownerID domain.UserID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO push_subscriptions (endpoint, user_id, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint)
		DO UPDATE SET user_id = EXCLUDED.user_id,
		              p256dh  = EXCLUDED.p256dh,
		              auth    = EXCLUDED.auth
	`, endpoint, int64(ownerID), keys.P256dh, keys.Auth)
	return err
}

// DetachOwner nulls out the owner of all of ownerID's subscriptions. Rows are
// kept: the browser endpoint persists independent of login state.
func (r *SubscriptionRepository) DetachOwner(ctx context.Context, ownerID domain.UserID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE push_subscriptions SET user_id = NULL WHERE user_id = $1
	`, int64(ownerID))
	return err
}

func (r *SubscriptionRepository) FindByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.PushSubscription, error) {
	rows, err := r.db.Query(ctx, `
		SELECT endpoint, user_id, p256dh, auth
		FROM push_subscriptions
		WHERE user_id = $1
	`, int64(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PushSubscription
	for rows.Next() {
		var (
			s     domain.PushSubscription
			owner *int64
		)
		if err := rows.Scan(&s.Endpoint, &owner, &s.P256dh, &s.Auth); err != nil {
			return nil, err
		}
		if owner != nil {
			id := domain.UserID(*owner)
			s.OwnerID = &id
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
