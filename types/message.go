package types

import (
	"fmt"
	"time"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is one turn of a chat exchange.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content,omitempty"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NewMessage stamps a message with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

func NewSystemMessage(content string) Message    { return NewMessage(RoleSystem, content) }
func NewUserMessage(content string) Message      { return NewMessage(RoleUser, content) }
func NewAssistantMessage(content string) Message { return NewMessage(RoleAssistant, content) }

// ValidateMessages checks a chat request: at least one message, known roles,
// and no empty content. Failures are ErrInvalidRequest errors.
func ValidateMessages(msgs []Message) error {
	if len(msgs) == 0 {
		return NewError(ErrInvalidRequest, "no messages")
	}
	for i, m := range msgs {
		if !m.Role.Valid() {
			return NewError(ErrInvalidRequest, fmt.Sprintf("message %d: unknown role %q", i, m.Role))
		}
		if m.Content == "" {
			return NewError(ErrInvalidRequest, fmt.Sprintf("message %d: empty content", i))
		}
	}
	return nil
}
