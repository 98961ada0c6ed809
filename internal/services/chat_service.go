package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelar/chatvault-be/internal/completion"
	"github.com/avelar/chatvault-be/internal/models"
)

// ChatServiceProvider defines the interface for the chat turn pipeline.
type ChatServiceProvider interface {
	NewTurn(ctx context.Context, sessionID, message string) ([]models.Turn, error)
	ListTurns(ctx context.Context, sessionID string) ([]models.Turn, error)
	ClearTurns(ctx context.Context, sessionID string) error
}

// ChatService extends a user's conversation through the external completion
// service and keeps the persisted log in step.
type ChatService struct {
	users     UserServiceProvider
	completer completion.Completer
}

// NewChatService creates a new ChatService.
func NewChatService(users UserServiceProvider, completer completion.Completer) *ChatService {
	return &ChatService{users: users, completer: completer}
}

// NewTurn appends one user turn, obtains the assistant's reply for the full
// history, persists both and returns the updated log. A completion failure
// leaves the stored log unchanged. A persistence failure after a successful
// completion loses the reply; the caller must resend.
func (s *ChatService) NewTurn(ctx context.Context, sessionID, message string) ([]models.Turn, error) {
	user, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userTurn := models.Turn{
		ID:      uuid.New().String(),
		Role:    models.RoleUser,
		Content: message,
	}

	// The completion API receives only role/content pairs.
	outgoing := make([]models.Turn, 0, len(user.Chats)+1)
	for _, t := range user.Chats {
		outgoing = append(outgoing, models.Turn{Role: t.Role, Content: t.Content})
	}
	outgoing = append(outgoing, models.Turn{Role: userTurn.Role, Content: userTurn.Content})

	user.Chats = append(user.Chats, userTurn)

	reply, err := s.completer.Complete(ctx, outgoing)
	if err != nil {
		// Nothing has been persisted; the attempted user turn is dropped.
		return nil, fmt.Errorf("completion service: %w", err)
	}
	user.Chats = append(user.Chats, reply)

	if err := s.users.SaveChats(ctx, user.ID, user.Chats); err != nil {
		return nil, fmt.Errorf("failed to persist chat log: %w", err)
	}

	return user.Chats, nil
}

// ListTurns returns the caller's stored chat log, oldest first.
func (s *ChatService) ListTurns(ctx context.Context, sessionID string) ([]models.Turn, error) {
	user, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if user.Chats == nil {
		return []models.Turn{}, nil
	}
	return user.Chats, nil
}

// ClearTurns empties the caller's stored chat log. Clearing an already empty
// log succeeds.
func (s *ChatService) ClearTurns(ctx context.Context, sessionID string) error {
	user, err := s.resolve(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.users.SaveChats(ctx, user.ID, []models.Turn{})
}

// resolve loads the session's user record and re-checks that the record
// belongs to the session principal.
func (s *ChatService) resolve(ctx context.Context, sessionID string) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, models.ErrNotRegistered
		}
		return models.User{}, err
	}
	if user.ID != sessionID {
		return models.User{}, models.ErrPermissionsMismatch
	}
	return user, nil
}
