package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/linkin-purry/chat-service/internal/domain"
)

const maxMessageLen = 4000

type MessageRepo interface {
	Save(ctx context.Context, fromID, toID domain.UserID, body string) (*domain.ChatMessage, error)
	History(ctx context.Context, a, b domain.UserID) ([]domain.ChatMessage, error)
}

type UserRepo interface {
	Exists(ctx context.Context, id domain.UserID) (bool, error)
}

// ChatService validates and persists direct messages. Anything delivered live
// must have gone through Send first: delivery happens only after the row is
// durably written.
type ChatService struct {
	messages MessageRepo
	users    UserRepo
}

func NewChatService(messages MessageRepo, users UserRepo) *ChatService {
	return &ChatService{messages: messages, users: users}
}

// Send checks the message against the routing rules and appends it. The
// sender id is the authenticated identity of the connection, never taken
// from the payload.
func (s *ChatService) Send(ctx context.Context, fromID, toID domain.UserID, body string) (*domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyMessage
	}
	if len(body) > maxMessageLen {
		return nil, domain.ErrMessageTooLong
	}
	if fromID == toID {
		return nil, domain.ErrSelfMessage
	}

	ok, err := s.users.Exists(ctx, toID)
	if err != nil {
		return nil, fmt.Errorf("lookup receiver: %w", err)
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	msg, err := s.messages.Save(ctx, fromID, toID, body)
	if err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	return msg, nil
}

func (s *ChatService) History(ctx context.Context, a, b domain.UserID) ([]domain.ChatMessage, error) {
	return s.messages.History(ctx, a, b)
}
