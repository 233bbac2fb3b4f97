package domain

// PushSubscription is a browser web-push endpoint. OwnerID is nil when the
// subscription is not bound to a logged-in user: the browser endpoint
// outlives the login session, so logout detaches the owner instead of
// deleting the row.
type PushSubscription struct {
	Endpoint string  `db:"endpoint"`
	OwnerID  *UserID `db:"user_id"`
	P256dh   string  `db:"p256dh"`
	Auth     string  `db:"auth"`
}

// NotificationKind selects the copy used for a push notification.
type NotificationKind string

const (
	NotificationMessage NotificationKind = "message"
	NotificationFeed    NotificationKind = "feed"
)

func (k NotificationKind) Valid() bool {
	return k == NotificationMessage || k == NotificationFeed
}
