package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/linkin-purry/chat-service/internal/domain"
)

// FlexID decodes a user id sent either as a JSON number or as a decimal
// string. The browser client is inconsistent about this because the backing
// column is a bigint serialized as a string.
type FlexID domain.UserID

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return err
	}
	*f = FlexID(id)
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(f), 10))
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ChatMessageItem struct {
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

type ChatHistoryResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    []ChatMessageItem `json:"data"`
}

type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type SaveSubscriptionRequest struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

type SendNotificationRequest struct {
	UserID           FlexID `json:"userId"`
	NotificationType string `json:"notificationType"`
	Message          string `json:"message"`
	URL              string `json:"url"`
}

type NotifyChatRequest struct {
	ReceiverID FlexID `json:"receiverId"`
	Message    string `json:"message"`
}

type VapidKeyResponse struct {
	VapidKey string `json:"vapidKey"`
}
