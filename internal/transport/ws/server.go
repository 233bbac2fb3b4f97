package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/linkin-purry/chat-service/internal/domain"

	"github.com/gorilla/websocket"
)

type TokenVerifier interface {
	Verify(token string) (domain.UserID, error)
}

type ChatSvc interface {
	Send(ctx context.Context, fromID, toID domain.UserID, body string) (*domain.ChatMessage, error)
}

type Notifier interface {
	Notify(ctx context.Context, targetID domain.UserID, kind domain.NotificationKind, body, url string) error
}

// Server owns the connection lifecycle: authenticate the upgrade, bind the
// identity, route sends. Constructed once at startup and injected into the
// router; never reached through package state.
type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	verifier TokenVerifier
	chatSvc  ChatSvc
	notifier Notifier // may be nil; push is then entirely client-triggered

	messagesURL string
	pingEvery   time.Duration
}

func NewServer(hub *Hub, verifier TokenVerifier, chat ChatSvc, notifier Notifier, messagesURL string) *Server {
	return &Server{
		hub:      hub,
		verifier: verifier,
		chatSvc:  chat,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		messagesURL: messagesURL,
		pingEvery:   15 * time.Second,
	}
}

// WS endpoint: GET /ws, session cookie on the handshake. A connection that
// fails verification is refused before the upgrade; it never reaches the hub.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie("token"); err == nil {
		token = c.Value
	}

	uid, err := s.verifier.Verify(token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "user", uid, "err", err)
		return
	}

	c := newWSConn(conn, uid)
	slog.Debug("ws connected", "user", uid)

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	// Unbind runs on every disconnect path, normal or not: readLoop only
	// returns once the transport is done. Remove before Close so a
	// concurrent fan-out never counts a dead connection as reached.
	s.hub.Remove(c)
	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "user", uid, "err", err)
	}
	slog.Debug("ws disconnected", "user", uid)
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case TypeJoinRoom:
			s.handleJoin(c, msg.Payload)
		case TypeSendMessage:
			s.handleSend(ctx, c, msg.Payload)
		default:
			// ignore
		}
	}
}

// handleJoin binds the connection to its channel. The channel name must be
// the caller's own identity; the client does not get to pick someone else's.
func (s *Server) handleJoin(c *wsConn, payload any) {
	channel, ok := decodeJoin(payload)
	if !ok {
		s.sendError(c, "invalid join payload")
		return
	}

	id, err := strconv.ParseUint(channel, 10, 64)
	if err != nil || domain.UserID(id) != c.userID {
		slog.Warn("ws join refused", "user", c.userID, "channel", channel)
		s.sendError(c, domain.ErrChannelForbidden.Error())
		return
	}

	if !c.joined {
		c.joined = true
		s.hub.Add(c)
	}
}

// handleSend runs the full pipeline for one message: validate, persist, then
// fan out. Persist-then-emit is the invariant; a message that failed to write
// is never delivered live. Events on one connection are handled in sequence,
// so a sender's messages reach the store and the recipient in send order.
func (s *Server) handleSend(ctx context.Context, c *wsConn, payload any) {
	var p SendPayload
	if err := decode(payload, &p); err != nil {
		s.sendError(c, "invalid message payload")
		return
	}

	toID, err := strconv.ParseUint(p.ToID, 10, 64)
	if err != nil {
		s.sendError(c, "invalid receiver id")
		return
	}

	msg, err := s.chatSvc.Send(ctx, c.userID, domain.UserID(toID), p.Body)
	if err != nil {
		slog.Warn("ws send rejected", "from", c.userID, "to", toID, "err", err)
		s.sendError(c, errorText(err))
		return
	}

	delivered := s.hub.Emit(msg.ToID, Message{
		Type: TypeReceiveMessage,
		Payload: ReceivePayload{
			SenderID:  strconv.FormatUint(uint64(msg.FromID), 10),
			Body:      msg.Body,
			Timestamp: msg.SentAt.Format(time.RFC3339Nano),
		},
	})

	// Recipient offline: hand off to push, detached from this connection's
	// flow. A dispatch failure cannot reach back into the persisted message
	// or the sender.
	if delivered == 0 && s.notifier != nil {
		go s.notifyOffline(msg.ToID, msg.Body)
	}
}

func (s *Server) notifyOffline(toID domain.UserID, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.notifier.Notify(ctx, toID, domain.NotificationMessage, body, s.messagesURL)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoSubscription):
		slog.Debug("no push subscription", "user", toID)
	default:
		slog.Warn("offline push dispatch failed", "user", toID, "err", err)
	}
}

func (s *Server) sendError(c *wsConn, reason string) {
	_ = c.Send(Message{Type: TypeError, Payload: reason})
}

// errorText maps routing errors onto the reasons the client shows. Anything
// unexpected is a persistence failure as far as the sender is concerned.
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrSelfMessage):
		return "You cannot send a message to yourself"
	case errors.Is(err, domain.ErrUserNotFound):
		return "Receiver not found"
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrMessageTooLong):
		return err.Error()
	default:
		return "Failed to save message"
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

type wsConn struct {
	conn   *websocket.Conn
	userID domain.UserID
	joined bool // touched only from readLoop
	sendMu chan struct{}
	closed chan struct{}
}

func newWSConn(c *websocket.Conn, userID domain.UserID) *wsConn {
	return &wsConn{
		conn:   c,
		userID: userID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) UserID() domain.UserID { return c.userID }
