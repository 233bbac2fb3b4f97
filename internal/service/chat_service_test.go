package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/linkin-purry/chat-service/internal/domain"
)

type fakeMessages struct {
	saved   []domain.ChatMessage
	saveErr error
}

func (f *fakeMessages) Save(_ context.Context, fromID, toID domain.UserID, body string) (*domain.ChatMessage, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	m := domain.ChatMessage{FromID: fromID, ToID: toID, Body: body, SentAt: time.Now()}
	f.saved = append(f.saved, m)
	return &m, nil
}

func (f *fakeMessages) History(_ context.Context, a, b domain.UserID) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, m := range f.saved {
		if (m.FromID == a && m.ToID == b) || (m.FromID == b && m.ToID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeUsers map[domain.UserID]bool

func (f fakeUsers) Exists(_ context.Context, id domain.UserID) (bool, error) {
	return f[id], nil
}

func TestSend_TrimsAndPersists(t *testing.T) {
	msgs := &fakeMessages{}
	svc := NewChatService(msgs, fakeUsers{2: true})

	m, err := svc.Send(context.Background(), 1, 2, "  hello  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.Body != "hello" {
		t.Fatalf("expected trimmed body, got %q", m.Body)
	}
	if len(msgs.saved) != 1 {
		t.Fatalf("expected 1 saved message, got %d", len(msgs.saved))
	}
}

func TestSend_RejectsEmpty(t *testing.T) {
	svc := NewChatService(&fakeMessages{}, fakeUsers{2: true})

	if _, err := svc.Send(context.Background(), 1, 2, "   "); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSend_RejectsTooLong(t *testing.T) {
	svc := NewChatService(&fakeMessages{}, fakeUsers{2: true})

	if _, err := svc.Send(context.Background(), 1, 2, strings.Repeat("x", maxMessageLen+1)); !errors.Is(err, domain.ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}
}

func TestSend_RejectsSelf(t *testing.T) {
	msgs := &fakeMessages{}
	svc := NewChatService(msgs, fakeUsers{1: true})

	if _, err := svc.Send(context.Background(), 1, 1, "hi"); !errors.Is(err, domain.ErrSelfMessage) {
		t.Fatalf("expected ErrSelfMessage, got %v", err)
	}
	if len(msgs.saved) != 0 {
		t.Fatalf("rejected message must not be persisted")
	}
}

func TestSend_RejectsUnknownReceiver(t *testing.T) {
	msgs := &fakeMessages{}
	svc := NewChatService(msgs, fakeUsers{})

	if _, err := svc.Send(context.Background(), 1, 2, "hi"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(msgs.saved) != 0 {
		t.Fatalf("rejected message must not be persisted")
	}
}

func TestSend_WrapsStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewChatService(&fakeMessages{saveErr: storeErr}, fakeUsers{2: true})

	if _, err := svc.Send(context.Background(), 1, 2, "hi"); !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
