package registeruser

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"credstore/internal/core/domain/logging"
	"credstore/internal/core/domain/user"
	service "credstore/internal/core/services/register_user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *user.FakeUserRepository) {
	t.Helper()
	repository := user.NewFakeUserRepository()
	handler := New(service.New(
		logging.NewFakeLogger(),
		repository,
		user.NewFakePasswordHasher(),
	))
	return handler, repository
}

func TestRegisterUserHandler(t *testing.T) {
	cases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "success",
			body:           `{"username": "alice", "password": "Secret123"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "success with role",
			body:           `{"username": "alice", "password": "Secret123", "role": "analyst"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{"username": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "username too short",
			body:           `{"username": "ab", "password": "Secret123"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "username not alphanumeric",
			body:           `{"username": "user_1", "password": "Secret123"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "password too short",
			body:           `{"username": "alice", "password": "abcde"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "role with line break",
			body:           `{"username": "alice", "password": "Secret123", "role": "x\nmallory:forged-hash"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "role with delimiter",
			body:           `{"username": "alice", "password": "Secret123", "role": "admin:extra"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			handler, _ := newTestHandler(t)
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(c.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, c.expectedStatus, rec.Code)
		})
	}
}

func TestRegisterUserHandlerDuplicate(t *testing.T) {
	handler, repository := newTestHandler(t)
	body := `{"username": "alice", "password": "Secret123"}`

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	storedHash := repository.Users[0].PasswordHash

	req = httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, repository.Users, 1)
	assert.Equal(t, storedHash, repository.Users[0].PasswordHash)
}
