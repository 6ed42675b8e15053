package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/gadhub/internal/auth"
	"github.com/yourorg/gadhub/internal/middleware"
	"github.com/yourorg/gadhub/internal/models"
	"github.com/yourorg/gadhub/internal/token"
)

// memoryUserStore is an in-memory stand-in for the MySQL store, good enough
// to drive the HTTP flows end to end without a database.
type memoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, users: make(map[int64]*models.User)}
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) FindByEmailOrStudentID(_ context.Context, email, studentID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email || u.StudentID == studentID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryUserStore) Insert(_ context.Context, u *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	cp.ID = s.nextID
	s.nextID++
	s.users[cp.ID] = &cp
	return cp.ID, nil
}

func (s *memoryUserStore) UpdateProfile(_ context.Context, id int64, firstName, lastName string, birthday time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.FirstName = firstName
		u.LastName = lastName
		u.Birthday = birthday
	}
	return nil
}

func (s *memoryUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (s *memoryUserStore) UpdateAvatar(_ context.Context, id int64, avatar models.Avatar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		a := avatar
		u.Avatar = &a
	}
	return nil
}

const handlerTestSecret = "handler-test-secret-handler-test-sec"

func newAuthTestApp(t *testing.T) (*fiber.App, *token.Issuer) {
	t.Helper()
	tokens := token.NewIssuer([]byte(handlerTestSecret), time.Hour)
	svc := auth.NewService(newMemoryUserStore(), tokens)
	h := NewAuthHandler(svc)

	app := fiber.New()
	api := app.Group("/api/auth")
	api.Post("/signup", h.Signup)
	api.Post("/login", h.Login)
	api.Get("/profile", middleware.RequireAuth(tokens), h.Profile)
	api.Post("/password", middleware.RequireAuth(tokens), h.ChangePassword)
	return app, tokens
}

func postAuthJSON(t *testing.T, app *fiber.App, path string, payload interface{}, bearer string) (int, []byte) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	// bcrypt at default cost makes these slower than the typical app.Test
	// budget, so raise the per-request timeout.
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func getAuthJSON(t *testing.T, app *fiber.App, path, bearer string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func sampleSignup() models.SignupRequest {
	return models.SignupRequest{
		StudentID: "TUPT-22-0711",
		Email:     "maria@example.edu",
		FirstName: "Maria",
		LastName:  "Santos",
		Birthday:  "2003-05-14",
		Password:  "longenough",
	}
}

func TestSignupCreatesAccount(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, body := postAuthJSON(t, app, "/api/auth/signup", sampleSignup(), "")
	require.Equal(t, http.StatusCreated, status)
	require.JSONEq(t, `{"msg":"registered"}`, string(body))
}

func TestSignupDuplicateEmail(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, _ := postAuthJSON(t, app, "/api/auth/signup", sampleSignup(), "")
	require.Equal(t, http.StatusCreated, status)

	dup := sampleSignup()
	dup.StudentID = "TUPT-22-9999"
	status, body := postAuthJSON(t, app, "/api/auth/signup", dup, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.JSONEq(t, `{"msg":"already exists"}`, string(body))
}

func TestSignupShortPasswordRejected(t *testing.T) {
	app, _ := newAuthTestApp(t)

	req := sampleSignup()
	req.Password = "short"
	status, _ := postAuthJSON(t, app, "/api/auth/signup", req, "")
	require.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestSignupBadBirthdayRejected(t *testing.T) {
	app, _ := newAuthTestApp(t)

	req := sampleSignup()
	req.Birthday = "14-05-2003"
	status, _ := postAuthJSON(t, app, "/api/auth/signup", req, "")
	require.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	app, tokens := newAuthTestApp(t)

	status, _ := postAuthJSON(t, app, "/api/auth/signup", sampleSignup(), "")
	require.Equal(t, http.StatusCreated, status)

	status, body := postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "maria@example.edu",
		Password: "longenough",
	}, "")
	require.Equal(t, http.StatusOK, status)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "maria@example.edu", resp.User.Email)
	require.True(t, resp.ExpiresAt.After(time.Now()))

	claim, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claim.UserID)
}

// Unknown email and wrong password must produce byte-identical responses.
func TestLoginFailureBodiesIdentical(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, _ := postAuthJSON(t, app, "/api/auth/signup", sampleSignup(), "")
	require.Equal(t, http.StatusCreated, status)

	statusUnknown, bodyUnknown := postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "nobody@example.edu",
		Password: "longenough",
	}, "")
	statusWrong, bodyWrong := postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "maria@example.edu",
		Password: "wrongpassword",
	}, "")

	require.Equal(t, http.StatusBadRequest, statusUnknown)
	require.Equal(t, statusUnknown, statusWrong)
	require.Equal(t, bodyUnknown, bodyWrong)
	require.JSONEq(t, `{"msg":"invalid credentials"}`, string(bodyUnknown))
}

// No auth response may ever carry the password or its hash.
func TestAuthResponsesNeverLeakPassword(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, body := postAuthJSON(t, app, "/api/auth/signup", sampleSignup(), "")
	require.Equal(t, http.StatusCreated, status)
	require.NotContains(t, strings.ToLower(string(body)), "password")

	status, body = postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "maria@example.edu",
		Password: "longenough",
	}, "")
	require.Equal(t, http.StatusOK, status)
	require.NotContains(t, string(body), "longenough")
	require.NotContains(t, strings.ToLower(string(body)), "password_hash")
	require.NotContains(t, string(body), "$2a$")
}

func TestProfileRequiresToken(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, body := getAuthJSON(t, app, "/api/auth/profile", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.JSONEq(t, `{"message":"No token, authorization denied"}`, string(body))
}

func TestProfileWithValidToken(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, _ := postAuthJSON(t, app, "/api/auth/signup", sampleSignup(), "")
	require.Equal(t, http.StatusCreated, status)

	status, body := postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "maria@example.edu",
		Password: "longenough",
	}, "")
	require.Equal(t, http.StatusOK, status)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))

	status, body = getAuthJSON(t, app, "/api/auth/profile", login.Token)
	require.Equal(t, http.StatusOK, status)

	var parsed struct {
		Message string            `json:"message"`
		User    models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Equal(t, "profile retrieved", parsed.Message)
	require.Equal(t, "TUPT-22-0711", parsed.User.StudentID)
	require.Equal(t, "2003-05-14", parsed.User.Birthday)
}

func TestProfileTokenForDeletedUser(t *testing.T) {
	app, tokens := newAuthTestApp(t)

	// A token whose subject was never created behaves like any bad token.
	ghost, _, err := tokens.Issue(12345)
	require.NoError(t, err)

	status, body := getAuthJSON(t, app, "/api/auth/profile", ghost)
	require.Equal(t, http.StatusUnauthorized, status)
	require.JSONEq(t, `{"message":"Invalid or expired token"}`, string(body))
}

func TestChangePasswordFlow(t *testing.T) {
	app, _ := newAuthTestApp(t)

	status, _ := postAuthJSON(t, app, "/api/auth/signup", sampleSignup(), "")
	require.Equal(t, http.StatusCreated, status)

	status, body := postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "maria@example.edu",
		Password: "longenough",
	}, "")
	require.Equal(t, http.StatusOK, status)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))

	status, body = postAuthJSON(t, app, "/api/auth/password", models.ChangePasswordRequest{
		CurrentPassword: "longenough",
		NewPassword:     "evenlongerone",
	}, login.Token)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"msg":"password changed"}`, string(body))

	// Old password is dead, new one works.
	status, _ = postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "maria@example.edu",
		Password: "longenough",
	}, "")
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = postAuthJSON(t, app, "/api/auth/login", models.LoginRequest{
		Email:    "maria@example.edu",
		Password: "evenlongerone",
	}, "")
	require.Equal(t, http.StatusOK, status)
}
