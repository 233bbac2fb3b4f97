package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/linkin-purry/chat-service/internal/domain"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// VAPID identifies this server to the browser push services.
type VAPID struct {
	PublicKey  string
	PrivateKey string
	Subscriber string // mailto: contact
}

type SubscriptionSource interface {
	FindByOwner(ctx context.Context, ownerID domain.UserID) ([]domain.PushSubscription, error)
}

// sendFunc matches webpush.SendNotificationWithContext; swapped in tests.
type sendFunc func(ctx context.Context, message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error)

// PushService delivers best-effort web-push notifications. A failed push is
// dropped: the message store is the system of record, the notification is
// only a signal.
type PushService struct {
	subs  SubscriptionSource
	vapid VAPID
	send  sendFunc
}

func NewPushService(subs SubscriptionSource, vapid VAPID) *PushService {
	return &PushService{
		subs:  subs,
		vapid: vapid,
		send:  webpush.SendNotificationWithContext,
	}
}

type notificationBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Data  struct {
		URL string `json:"url"`
	} `json:"data"`
}

type notificationPayload struct {
	Notification notificationBody `json:"notification"`
}

func buildPayload(kind domain.NotificationKind, body, url string) ([]byte, error) {
	var title string
	switch kind {
	case domain.NotificationMessage:
		title = "New message from your friend!"
	case domain.NotificationFeed:
		title = "New post from your connection!"
	default:
		return nil, domain.ErrInvalidKind
	}

	p := notificationPayload{}
	p.Notification.Title = title
	p.Notification.Body = body
	p.Notification.Icon = "/icon.png"
	p.Notification.Data.URL = url

	return json.Marshal(p)
}

// Notify pushes to every subscription of targetID. The result reflects only
// the subscription lookup: domain.ErrNoSubscription when the user never
// enabled push, nil once delivery has been attempted to each endpoint.
// Per-endpoint failures (expired endpoint, network) are logged and absorbed;
// one bad subscription never blocks the rest.
func (s *PushService) Notify(ctx context.Context, targetID domain.UserID, kind domain.NotificationKind, body, url string) error {
	payload, err := buildPayload(kind, body, url)
	if err != nil {
		return err
	}

	list, err := s.subs.FindByOwner(ctx, targetID)
	if err != nil {
		return fmt.Errorf("find subscriptions: %w", err)
	}
	if len(list) == 0 {
		return domain.ErrNoSubscription
	}

	opts := &webpush.Options{
		Subscriber:      s.vapid.Subscriber,
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             60,
	}

	for _, sub := range list {
		resp, err := s.send(ctx, payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, opts)
		if err != nil {
			slog.Warn("push delivery failed",
				"user", targetID, "endpoint", sub.Endpoint, "err", err)
			continue
		}
		_ = resp.Body.Close()
	}

	return nil
}
