// Package model defines the core memory data types.
package model

import "time"

// Role identifies the speaker of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// TypeConversation is the memory type assigned to consolidated interactions.
const TypeConversation = "conversation"

// Message is a single chat turn. Treat as immutable once created.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Fields    `json:"metadata,omitempty"`
}

// NewMessage returns a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// Interaction is a completed exchange held in the short-term tier.
type Interaction struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Timestamp time.Time `json:"timestamp"`
	Context   Fields    `json:"context,omitempty"`
	Summary   string    `json:"summary,omitempty"`
}

// Memory is a consolidated long-term record. Memories are append-only.
type Memory struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Importance float64   `json:"importance"`
	Type       string    `json:"type"`
	Tags       []string  `json:"tags"`
	Embedding  []float32 `json:"embedding,omitempty"`
}
