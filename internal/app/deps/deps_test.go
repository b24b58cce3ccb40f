package deps

import (
	"path/filepath"
	"testing"

	"credstore/internal/core/domain/user"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func initTestDeps(t *testing.T, testMode string) *Deps {
	t.Helper()
	t.Setenv("SECRET", "test-secret")
	t.Setenv("TEST_MODE", testMode)
	t.Setenv("BCRYPT_HASHER_COST", "6")
	t.Setenv("USERS_FILE_PATH", filepath.Join(t.TempDir(), "users.txt"))

	deps, shutdown := InitDeps()
	t.Cleanup(shutdown)
	return deps
}

func hasherCost(t *testing.T, deps *Deps) int {
	t.Helper()
	hash, err := deps.PasswordHasher.HashPassword(user.RawPassword("Secret123"))
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	return cost
}

func TestTestModeUsesMinimumBcryptCost(t *testing.T) {
	deps := initTestDeps(t, "true")
	require.Equal(t, bcrypt.MinCost, hasherCost(t, deps))
}

func TestConfiguredBcryptCostOutsideTestMode(t *testing.T) {
	deps := initTestDeps(t, "false")
	require.Equal(t, 6, hasherCost(t, deps))
}
