package models

import "time"

// Role identifies the author of a turn in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// Reserved by the completion API; never emitted by this service.
	RoleSystem   Role = "system"
	RoleFunction Role = "function"
)

// Turn is one message in a user's conversation log.
type Turn struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// User represents a user account and its conversation state.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Chats        []Turn    `json:"chats"`
	CreatedAt    time.Time `json:"createdAt"`
}
