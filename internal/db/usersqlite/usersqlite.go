// Package usersqlite persists user records in a local SQLite database.
// It mirrors the file-backed store's semantics, with uniqueness enforced
// by the schema instead of a read-modify-write cycle, and can import an
// existing users.txt file.
package usersqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"credstore/internal/core/domain/user"
	"credstore/internal/db/userfile"

	"github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user'
);`

// Open opens (or creates) a SQLite database file and ensures the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// journal_mode may not be supported for in-memory databases. Ignore errors.
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

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

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		string(input.Username), string(input.PasswordHash), string(role),
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return u, user.ErrUsernameAlreadyExists
	}
	if err != nil {
		return u, err
	}
	return u, nil
}

func (r *Repository) GetByUsername(ctx context.Context, username user.Username) (u user.User, err error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var name, hash, role string
	err = r.db.QueryRowContext(
		ctx,
		`SELECT username, password_hash, role FROM users WHERE username = ?`,
		string(username),
	).Scan(&name, &hash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return user.User{
		Username:     user.Username(name),
		PasswordHash: user.PasswordHash(hash),
		Role:         user.Role(role),
	}, nil
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
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT username, password_hash, role FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var name, hash, role string
		if err := rows.Scan(&name, &hash, &role); err != nil {
			return nil, err
		}
		users = append(users, user.User{
			Username:     user.Username(name),
			PasswordHash: user.PasswordHash(hash),
			Role:         user.Role(role),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) SetPassword(ctx context.Context, username user.Username, password user.PasswordHash) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(
		ctx,
		`UPDATE users SET password_hash = ? WHERE username = ?`,
		string(password), string(username),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

// ImportFromFile migrates records from a users.txt file into the database.
// Usernames already present are left untouched. Returns the number of
// imported records. A missing file imports nothing.
func (r *Repository) ImportFromFile(ctx context.Context, path string) (int, error) {
	users, err := userfile.New(path).List(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, u := range users {
		res, err := r.db.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
			string(u.Username), string(u.PasswordHash), string(u.Role),
		)
		if err != nil {
			return count, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return count, err
		}
		count += int(affected)
	}
	return count, nil
}
