package broadcast

import (
	"time"

	"github.com/hammamikhairi/scorekeep/internal/domain"
)

// MessageType identifies a server message.
type MessageType string

const (
	// MessageTypeState carries a full scoreboard snapshot.
	MessageTypeState MessageType = "state"
)

// Message is one frame sent to overlay clients. Every frame carries the
// whole state, so a client that misses frames only needs the latest.
type Message struct {
	Type      MessageType  `json:"type"`
	State     domain.State `json:"state"`
	Timestamp time.Time    `json:"timestamp"`
}

func stateMessage(s domain.State) Message {
	return Message{Type: MessageTypeState, State: s, Timestamp: time.Now()}
}
