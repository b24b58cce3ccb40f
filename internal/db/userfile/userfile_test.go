package userfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	c "credstore/internal/core/domain/common"
	"credstore/internal/core/domain/user"

	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "users.txt"))
}

func createUser(t *testing.T, r *Repository, username, hash string) user.User {
	t.Helper()
	u, err := r.Create(context.Background(), user.CreateUserInput{
		Username:     user.Username(username),
		PasswordHash: user.PasswordHash(hash),
	})
	require.NoError(t, err)
	return u
}

func TestMissingFileReadsAsEmptyStore(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	exists, err := r.Exists(ctx, user.Username("alice"))
	require.NoError(t, err)
	require.False(t, exists)

	_, err = r.GetByUsername(ctx, user.Username("alice"))
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
}

func TestCreateAndReload(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	created := createUser(t, r, "alice", "$2a$10$fakefakefakefakefakefake")
	require.Equal(t, user.DefaultRole, created.Role)

	exists, err := r.Exists(ctx, user.Username("alice"))
	require.NoError(t, err)
	require.True(t, exists)

	// A fresh repository over the same file must see the record.
	fresh := New(r.path)
	got, err := fresh.GetByUsername(ctx, user.Username("alice"))
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestCreateWithRole(t *testing.T) {
	r := newTestRepository(t)
	u, err := r.Create(context.Background(), user.CreateUserInput{
		Username:     user.Username("carol"),
		PasswordHash: user.PasswordHash("hash"),
		Role:         c.NewOptional(user.Role("admin"), true),
	})
	require.NoError(t, err)
	require.Equal(t, user.Role("admin"), u.Role)

	got, err := r.GetByUsername(context.Background(), user.Username("carol"))
	require.NoError(t, err)
	require.Equal(t, user.Role("admin"), got.Role)
}

func TestDuplicateUsernameRejected(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	createUser(t, r, "alice", "original-hash")

	_, err := r.Create(ctx, user.CreateUserInput{
		Username:     user.Username("alice"),
		PasswordHash: user.PasswordHash("other-hash"),
	})
	require.ErrorIs(t, err, user.ErrUsernameAlreadyExists)

	got, err := r.GetByUsername(ctx, user.Username("alice"))
	require.NoError(t, err)
	require.Equal(t, user.PasswordHash("original-hash"), got.PasswordHash)

	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	content := strings.Join([]string{
		"alice:hash-a:user",
		"",
		"no-delimiter-at-all",
		":missing-username",
		"missing-hash:",
		"bob:hash-b",
		"   ",
		"carol:hash-c:admin",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := New(path)
	users, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, user.Username("alice"), users[0].Username)
	require.Equal(t, user.Username("bob"), users[1].Username)
	require.Equal(t, user.DefaultRole, users[1].Role)
	require.Equal(t, user.Role("admin"), users[2].Role)
}

func TestLegacyTwoFieldLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	require.NoError(t, os.WriteFile(path, []byte("dave:some-hash\n"), 0o644))

	r := New(path)
	got, err := r.GetByUsername(context.Background(), user.Username("dave"))
	require.NoError(t, err)
	require.Equal(t, user.PasswordHash("some-hash"), got.PasswordHash)
	require.Equal(t, user.DefaultRole, got.Role)
}

func TestSetPassword(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	createUser(t, r, "alice", "old-hash")
	createUser(t, r, "bob", "bob-hash")

	require.NoError(t, r.SetPassword(ctx, user.Username("alice"), user.PasswordHash("new-hash")))

	got, err := r.GetByUsername(ctx, user.Username("alice"))
	require.NoError(t, err)
	require.Equal(t, user.PasswordHash("new-hash"), got.PasswordHash)

	// Order and the other record survive the rewrite.
	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, user.Username("alice"), users[0].Username)
	require.Equal(t, user.PasswordHash("bob-hash"), users[1].PasswordHash)
}

func TestRoleCannotInjectExtraRecords(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	for _, role := range []string{"x\nmallory:forged-hash", "x:extra", "x\rmallory:forged-hash"} {
		_, err := r.Create(ctx, user.CreateUserInput{
			Username:     user.Username("alice"),
			PasswordHash: user.PasswordHash("hash-a"),
			Role:         c.NewOptional(user.Role(role), true),
		})
		require.Error(t, err)
	}

	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestSetPasswordUnknownUser(t *testing.T) {
	r := newTestRepository(t)
	err := r.SetPassword(context.Background(), user.Username("nobody"), user.PasswordHash("hash"))
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
}

func TestParentDirectoryIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "users.txt")
	r := New(path)
	createUser(t, r, "alice", "hash")

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestConcurrentRegistrationsKeepUniqueness(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(ix int) {
			defer wg.Done()
			_, errs[ix] = r.Create(ctx, user.CreateUserInput{
				Username:     user.Username("alice"),
				PasswordHash: user.PasswordHash("hash"),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.True(t, errors.Is(err, user.ErrUsernameAlreadyExists))
		}
	}
	require.Equal(t, 1, succeeded)

	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestCanceledContext(t *testing.T) {
	r := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
