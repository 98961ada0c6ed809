package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar/chatvault-be/internal/auth"
	"github.com/avelar/chatvault-be/internal/config"
	"github.com/avelar/chatvault-be/internal/models"
)

type stubUserService struct {
	users map[string]models.User
}

func (s *stubUserService) GetUserByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, models.ErrNotRegistered
	}
	return user, nil
}

func (s *stubUserService) GetUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, models.ErrNotRegistered
}

func (s *stubUserService) GetAllUsers(context.Context) ([]models.User, error) {
	return nil, nil
}

func (s *stubUserService) Signup(_ context.Context, name, email, _ string) (models.User, error) {
	user := models.User{ID: "u1", Name: name, Email: email, Chats: []models.Turn{}}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserService) Authenticate(context.Context, string, string) (models.User, error) {
	return models.User{}, models.ErrIncorrectPassword
}

func (s *stubUserService) SaveChats(context.Context, string, []models.Turn) error {
	return nil
}

type stubChatService struct {
	lastSessionID string
}

func (s *stubChatService) NewTurn(_ context.Context, sessionID, message string) ([]models.Turn, error) {
	s.lastSessionID = sessionID
	return []models.Turn{
		{Role: models.RoleUser, Content: message},
		{Role: models.RoleAssistant, Content: "reply"},
	}, nil
}

func (s *stubChatService) ListTurns(_ context.Context, sessionID string) ([]models.Turn, error) {
	s.lastSessionID = sessionID
	return []models.Turn{}, nil
}

func (s *stubChatService) ClearTurns(_ context.Context, sessionID string) error {
	s.lastSessionID = sessionID
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubChatService) {
	t.Helper()

	cfg := &config.Config{CORSOrigin: "http://localhost:5173"}
	tokens := auth.NewTokenManager("jwt-secret")
	cookies := auth.NewCookieManager("cookie-secret", "localhost", false)
	chats := &stubChatService{}
	router := NewRouter(cfg, tokens, cookies, &stubUserService{users: map[string]models.User{}}, chats)
	return router, chats
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ChatRequiresSession(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/chat/new"},
		{http.MethodGet, "/api/v1/chat/all-chats"},
		{http.MethodDelete, "/api/v1/chat/delete"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, rec.Body.String(), "token not received")
	}
}

func TestRouter_SignupSessionDrivesChat(t *testing.T) {
	t.Parallel()

	router, chats := newTestRouter(t)

	signup := httptest.NewRequest(http.MethodPost, "/api/v1/user/signup",
		strings.NewReader(`{"name":"Ann Lee","email":"ann@example.com","password":"secret1"}`))
	signup.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signup)
	require.Equal(t, http.StatusCreated, rec.Code)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName && c.Value != "" {
			session = c
		}
	}
	require.NotNil(t, session, "signup must set a session cookie")

	// The chat endpoints act on the account baked into the session, nothing
	// else identifies the caller.
	msg := httptest.NewRequest(http.MethodPost, "/api/v1/chat/new", strings.NewReader(`{"message":"hello"}`))
	msg.Header.Set("Content-Type", "application/json")
	msg.AddCookie(session)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, msg)

	require.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), `"role":"assistant"`)
	assert.Equal(t, "u1", chats.lastSessionID)
}
