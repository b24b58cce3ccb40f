package changepassword

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"credstore/internal/core/domain/logging"
	"credstore/internal/core/domain/user"
	service "credstore/internal/core/services/change_password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *user.FakeUserRepository, *user.FakePasswordHasher) {
	t.Helper()
	repository := user.NewFakeUserRepository()
	hasher := user.NewFakePasswordHasher()

	hash, err := hasher.HashPassword(user.RawPassword("old-password"))
	require.NoError(t, err)
	_, err = repository.Create(context.Background(), user.CreateUserInput{
		Username:     user.Username("alice"),
		PasswordHash: hash,
	})
	require.NoError(t, err)

	handler := New(service.New(logging.NewFakeLogger(), repository, hasher))
	return handler, repository, hasher
}

func TestChangePasswordHandler(t *testing.T) {
	cases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "success",
			body:           `{"username": "alice", "old_password": "old-password", "new_password": "new-password"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong old password",
			body:           `{"username": "alice", "old_password": "wrong", "new_password": "new-password"}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown user",
			body:           `{"username": "carol", "old_password": "old-password", "new_password": "new-password"}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "new password too short",
			body:           `{"username": "alice", "old_password": "old-password", "new_password": "abcde"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			body:           `{"username"`,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			handler, _, _ := newTestHandler(t)
			req := httptest.NewRequest(http.MethodPut, "/auth/password", strings.NewReader(c.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, c.expectedStatus, rec.Code)
		})
	}
}

func TestChangePasswordHandlerPersistsNewHash(t *testing.T) {
	handler, repository, hasher := newTestHandler(t)
	body := `{"username": "alice", "old_password": "old-password", "new_password": "new-password"}`

	req := httptest.NewRequest(http.MethodPut, "/auth/password", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	ok, err := hasher.ValidatePassword(user.RawPassword("new-password"), repository.Users[0].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
