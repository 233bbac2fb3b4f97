package ws

import "encoding/json"

// Event types on the chat socket.
const (
	TypeJoinRoom       = "joinRoom"       // C->S: bind this connection to the caller's own channel
	TypeSendMessage    = "sendMessage"    // C->S: direct message to another user
	TypeReceiveMessage = "receiveMessage" // S->C: fan-out to every live connection of the recipient
	TypeError          = "error"          // S->C: human-readable reason, sender only
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// JoinPayload names the channel to bind. The channel must equal the caller's
// own identity; the legacy client sends a bare string instead of an object,
// both shapes are accepted.
type JoinPayload struct {
	Channel string `json:"channel"`
}

// SendPayload carries a direct message. SenderID is accepted for wire
// compatibility with the legacy client but never trusted: the authenticated
// connection identity is the sender. Timestamp is informational only; the
// server assigns the persisted time.
type SendPayload struct {
	SenderID  string `json:"senderId,omitempty"`
	ToID      string `json:"toId"`
	Body      string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

type ReceivePayload struct {
	SenderID  string `json:"senderId"`
	Body      string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// decode re-marshals a loosely typed payload into dst. Parse, don't trust:
// every inbound payload goes through this before anything acts on it.
func decode(payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

// decodeJoin handles both join payload shapes.
func decodeJoin(payload any) (string, bool) {
	if s, ok := payload.(string); ok {
		return s, true
	}
	var p JoinPayload
	if err := decode(payload, &p); err != nil {
		return "", false
	}
	return p.Channel, p.Channel != ""
}
