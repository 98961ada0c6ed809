package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelar/chatvault-be/internal/models"
)

// Fixed bcrypt cost for password hashing.
const bcryptCost = 10

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	Signup(ctx context.Context, name, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	SaveChats(ctx context.Context, id string, chats []models.Turn) error
}

// UserService provides business logic for user accounts and owns the
// credential store.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID, including the chat log.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, chats_json, created_at FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, chats_json, created_at FROM users WHERE email = ?", email)
	return scanUser(row)
}

// GetAllUsers returns every user record, sanitized.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, created_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Signup creates a new user with an empty chat log, hashing their password.
// A signup for an email that already has an account fails with
// models.ErrAlreadyRegistered.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, models.ErrAlreadyRegistered
	} else if err != sql.ErrNoRows {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Chats:        []models.Turn{},
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, name, email, password_hash, chats_json) VALUES(?, ?, ?, ?, '[]')",
		user.ID, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email fails with
// models.ErrNotRegistered, a wrong password with models.ErrIncorrectPassword.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, models.ErrNotRegistered
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, models.ErrIncorrectPassword
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// SaveChats replaces a user's stored chat log with chats. The log is a single
// JSON document, so concurrent writers last-write-win; see DESIGN.md.
func (s *UserService) SaveChats(ctx context.Context, id string, chats []models.Turn) error {
	if chats == nil {
		chats = []models.Turn{}
	}
	raw, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to encode chat log: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "UPDATE users SET chats_json = ? WHERE id = ?", string(raw), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotRegistered
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	var chatsJSON string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &chatsJSON, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	if err := json.Unmarshal([]byte(chatsJSON), &user.Chats); err != nil {
		return models.User{}, fmt.Errorf("corrupt chat log for user %s: %w", user.ID, err)
	}
	return user, nil
}
