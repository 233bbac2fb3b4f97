package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linkin-purry/chat-service/internal/domain"
	httpmw "github.com/linkin-purry/chat-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type ChatSvc interface {
	History(ctx context.Context, a, b domain.UserID) ([]domain.ChatMessage, error)
}

type SubscriptionSvc interface {
	Register(ctx context.Context, ownerID domain.UserID, endpoint, p256dh, auth string) error
	Detach(ctx context.Context, ownerID domain.UserID) error
}

type PushSvc interface {
	Notify(ctx context.Context, targetID domain.UserID, kind domain.NotificationKind, body, url string) error
}

type Handler struct {
	chatSvc     ChatSvc
	subSvc      SubscriptionSvc
	pushSvc     PushSvc
	vapidKey    string // public half, served to the browser
	messagesURL string // link embedded in chat notifications
}

func NewHandler(chat ChatSvc, subs SubscriptionSvc, push PushSvc, vapidPublicKey, messagesURL string) *Handler {
	return &Handler{
		chatSvc:     chat,
		subSvc:      subs,
		pushSvc:     push,
		vapidKey:    vapidPublicKey,
		messagesURL: messagesURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /chat/{userId}/{oppositeUserId}
// History is private to its participants: the caller must be the {userId}
// side of the pair.
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	caller, ok := httpmw.UserIDFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, StatusResponse{Success: false, Message: "User not authenticated"})
		return
	}

	userID, err1 := strconv.ParseUint(chi.URLParam(r, "userId"), 10, 64)
	oppositeID, err2 := strconv.ParseUint(chi.URLParam(r, "oppositeUserId"), 10, 64)
	if err1 != nil || err2 != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "Invalid user id"})
		return
	}
	if domain.UserID(userID) != caller {
		writeJSON(w, http.StatusForbidden, StatusResponse{Success: false, Message: "You can only access your own chat history"})
		return
	}

	history, err := h.chatSvc.History(r.Context(), caller, domain.UserID(oppositeID))
	if err != nil {
		slog.Error("handler.GetChatHistory:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, StatusResponse{Success: false, Message: "Failed to fetch chat history"})
		return
	}

	resp := ChatHistoryResponse{
		Success: true,
		Message: "Chat history fetched successfully",
		Data:    make([]ChatMessageItem, 0, len(history)),
	}
	if len(history) == 0 {
		resp.Message = "No chat history found"
	}
	for _, m := range history {
		resp.Data = append(resp.Data, ChatMessageItem{
			SenderID:   strconv.FormatUint(uint64(m.FromID), 10),
			ReceiverID: strconv.FormatUint(uint64(m.ToID), 10),
			Message:    m.Body,
			Timestamp:  m.SentAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /save-push-subscription
func (h *Handler) SavePushSubscription(w http.ResponseWriter, r *http.Request) {
	caller, ok := httpmw.UserIDFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, StatusResponse{Success: false, Message: "User not authenticated"})
		return
	}

	var req SaveSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid subscription data"})
		return
	}

	if err := h.subSvc.Register(r.Context(), caller, req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		slog.Error("handler.SavePushSubscription:", slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid subscription data"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Subscription saved successfully"})
}

// POST /send-push-notification
// Push is best-effort: delivery problems are logged, never surfaced to the
// caller as a hard failure.
func (h *Handler) SendPushNotification(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	kind := domain.NotificationKind(req.NotificationType)
	if !kind.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: domain.ErrInvalidKind.Error()})
		return
	}

	if err := h.pushSvc.Notify(r.Context(), domain.UserID(req.UserID), kind, req.Message, req.URL); err != nil {
		slog.Warn("handler.SendPushNotification:", slog.Any("err", err))
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// POST /notify-chat
// Convenience route the chat client calls after a send, so an offline
// recipient still hears about the message.
func (h *Handler) NotifyChat(w http.ResponseWriter, r *http.Request) {
	var req NotifyChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReceiverID == 0 || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing required fields"})
		return
	}

	err := h.pushSvc.Notify(r.Context(), domain.UserID(req.ReceiverID), domain.NotificationMessage, req.Message, h.messagesURL)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, StatusResponse{Success: true})
	case errors.Is(err, domain.ErrNoSubscription):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "No subscriptions found"})
	default:
		slog.Error("handler.NotifyChat:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to send notification"})
	}
}

// POST /logout
// The session cookie is cleared and the caller's push subscriptions are
// detached, not deleted: the browser endpoint survives the login session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	caller, ok := httpmw.UserIDFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "User not logged in"})
		return
	}

	if err := h.subSvc.Detach(r.Context(), caller); err != nil {
		slog.Error("handler.Logout:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, StatusResponse{Success: false, Message: "Logout failed"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Logout successful"})
}

// GET /vapid-key
func (h *Handler) VapidKey(w http.ResponseWriter, r *http.Request) {
	if h.vapidKey == "" {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "VAPID key not set in the environment"})
		return
	}
	writeJSON(w, http.StatusOK, VapidKeyResponse{VapidKey: h.vapidKey})
}
