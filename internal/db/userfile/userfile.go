// Package userfile persists user records as a line-oriented UTF-8 text file,
// one `username:password_hash:role` record per line. The bcrypt encoding
// alphabet never contains the delimiter and usernames are restricted to
// ASCII letters and digits, so no escaping is needed.
package userfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"credstore/internal/core/domain/user"
)

const delimiter = ":"

type Repository struct {
	path string

	// Serializes the read-modify-write cycle of every mutation so two
	// concurrent registrations can never both pass the existence check.
	mu sync.Mutex
}

func New(path string) *Repository {
	if path == "" {
		panic("Argument path must not be empty.")
	}
	return &Repository{path: path}
}

func (r *Repository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	if err := ctx.Err(); err != nil {
		return u, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return u, err
	}
	for _, existing := range users {
		if existing.Username == input.Username {
			return u, user.ErrUsernameAlreadyExists
		}
	}

	role := user.DefaultRole
	if input.Role.IsPresent {
		role = input.Role.Value
	}
	u = user.User{
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		Role:         role,
	}
	if err := u.Validate(); err != nil {
		return u, err
	}
	if err := r.appendRecord(u); err != nil {
		return u, err
	}
	return u, nil
}

func (r *Repository) GetByUsername(ctx context.Context, username user.Username) (u user.User, err error) {
	if err := ctx.Err(); err != nil {
		return u, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return u, err
	}
	for _, existing := range users {
		if existing.Username == username {
			return existing, nil
		}
	}
	return u, user.ErrUserDoesNotExist
}

func (r *Repository) Exists(ctx context.Context, username user.Username) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) List(ctx context.Context) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll()
}

func (r *Repository) SetPassword(ctx context.Context, username user.Username, password user.PasswordHash) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return err
	}
	found := false
	for ix := range users {
		if users[ix].Username == username {
			users[ix].PasswordHash = password
			found = true
			break
		}
	}
	if !found {
		return user.ErrUserDoesNotExist
	}
	return r.writeAll(users)
}

// readAll loads every well-formed record in file order. Blank and malformed
// lines are skipped, never fatal; a missing file reads as an empty store.
func (r *Repository) readAll() ([]user.User, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var users []user.User
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		u, ok := parseLine(line)
		if !ok {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func parseLine(line string) (u user.User, ok bool) {
	parts := strings.SplitN(line, delimiter, 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return u, false
	}
	role := user.DefaultRole
	if len(parts) == 3 && parts[2] != "" {
		role = user.Role(parts[2])
	}
	return user.User{
		Username:     user.Username(parts[0]),
		PasswordHash: user.PasswordHash(parts[1]),
		Role:         role,
	}, true
}

func formatLine(u user.User) string {
	return fmt.Sprintf("%s%s%s%s%s\n", u.Username, delimiter, string(u.PasswordHash), delimiter, u.Role)
}

// appendRecord adds a single record without rewriting the file. A one-line
// write to a file opened with O_APPEND is a single write syscall, so readers
// never observe a partial record.
func (r *Repository) appendRecord(u user.User) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(formatLine(u)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeAll rewrites the whole file through a temp file and an atomic rename.
func (r *Repository) writeAll(users []user.User) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".users-*.tmp")
	if err != nil {
		return err
	}
	for _, u := range users {
		if _, err := tmp.WriteString(formatLine(u)); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
