package user

import (
	"fmt"
	"strings"

	e "credstore/internal/core/domain/errors"
)

type Username string

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type Role string

const DefaultRole = Role("user")

type User struct {
	Username     Username
	PasswordHash PasswordHash
	Role         Role
}

func (u *User) Validate() error {
	if u.Username == "" {
		return e.NewInvalidStateError("username is not set")
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %s", u.Username))
	}
	// A role carrying the record delimiter or a line break would let one
	// record masquerade as several in the line-oriented store.
	if strings.ContainsAny(string(u.Role), ":\n\r") {
		return e.NewInvalidStateError(fmt.Sprintf("role contains forbidden characters for user %s", u.Username))
	}
	return nil
}
