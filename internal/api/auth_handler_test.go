package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Loekiboy/loek-it-up/internal/domain"
	"github.com/Loekiboy/loek-it-up/internal/service/auth"
	"github.com/Loekiboy/loek-it-up/internal/store"
)

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hash)
	user.Password = ""
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

// stubJWTService returns canned tokens and claims.
type stubJWTService struct {
	token       string
	generateErr error
	claims      *auth.Claims
	validateErr error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.token, nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

func newAuthHandler(users *fakeUserStore) *AuthHandler {
	return NewAuthHandler(users, &stubJWTService{token: "test-token"}, auth.NewBcryptVerifier())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users)

	w := postJSON(t, h.Register, "/auth/register", RegisterRequest{
		Email:    "test@example.com",
		Password: "securepassword123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test-token", resp.Token)
	assert.NotEqual(t, uuid.Nil, resp.UserID)

	// Stored user carries a hash, not the plaintext.
	stored := users.byEmail["test@example.com"]
	require.NotNil(t, stored)
	assert.Empty(t, stored.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("securepassword123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users)

	req := RegisterRequest{Email: "test@example.com", Password: "securepassword123"}
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, "/auth/register", req).Code)

	w := postJSON(t, h.Register, "/auth/register", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
}

func TestRegisterValidation(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "securepassword123"}},
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "securepassword123"}},
		{"short password", RegisterRequest{Email: "test@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h.Register, "/auth/register", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterMalformedBody(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	r := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Register(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users)

	register := RegisterRequest{Email: "test@example.com", Password: "securepassword123"}
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, "/auth/register", register).Code)

	w := postJSON(t, h.Login, "/auth/login", LoginRequest{
		Email:    "test@example.com",
		Password: "securepassword123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test-token", resp.Token)
}

func TestLoginBadCredentials(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users)

	register := RegisterRequest{Email: "test@example.com", Password: "securepassword123"}
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, "/auth/register", register).Code)

	wrongPassword := postJSON(t, h.Login, "/auth/login", LoginRequest{
		Email:    "test@example.com",
		Password: "wrongpassword999",
	})
	unknownEmail := postJSON(t, h.Login, "/auth/login", LoginRequest{
		Email:    "other@example.com",
		Password: "securepassword123",
	})

	// Both failures answer identically.
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	var a, b map[string]any
	require.NoError(t, json.Unmarshal(wrongPassword.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(unknownEmail.Body.Bytes(), &b))
	assert.Equal(t, a["error"], b["error"])
}

func TestLoginTokenGenerationFailure(t *testing.T) {
	users := newFakeUserStore()
	register := newAuthHandler(users)
	req := RegisterRequest{Email: "test@example.com", Password: "securepassword123"}
	require.Equal(t, http.StatusCreated, postJSON(t, register.Register, "/auth/register", req).Code)

	h := NewAuthHandler(users,
		&stubJWTService{generateErr: context.DeadlineExceeded},
		auth.NewBcryptVerifier())

	w := postJSON(t, h.Login, "/auth/login", LoginRequest{
		Email:    "test@example.com",
		Password: "securepassword123",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
