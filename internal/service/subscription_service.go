package service

import (
	"context"
	"errors"
	"strings"

	"github.com/linkin-purry/chat-service/internal/domain"
)

type SubscriptionRepo interface {
	Upsert(ctx context.Context, endpoint string, keys domain.PushSubscription, ownerID domain.UserID) error
	DetachOwner(ctx context.Context, ownerID domain.UserID) error
	FindByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.PushSubscription, error)
}

// SubscriptionService is the registry of web-push endpoints per user.
type SubscriptionService struct {
	subs SubscriptionRepo
}

func NewSubscriptionService(subs SubscriptionRepo) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// Register upserts the endpoint for ownerID. Idempotent per endpoint.
func (s *SubscriptionService) Register(ctx context.Context, ownerID domain.UserID, endpoint, p256dh, auth string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" || p256dh == "" || auth == "" {
		return errors.New("invalid subscription data")
	}

	return s.subs.Upsert(ctx, endpoint, domain.PushSubscription{
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}, ownerID)
}

// Detach unbinds all of ownerID's subscriptions on logout. The rows stay:
// the browser endpoint is still alive and is re-associated on next login.
func (s *SubscriptionService) Detach(ctx context.Context, ownerID domain.UserID) error {
	return s.subs.DetachOwner(ctx, ownerID)
}
