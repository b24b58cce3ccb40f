package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
)

type FakePasswordHasher struct {
	HashErr     error
	ValidateErr error
}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	if h.HashErr != nil {
		return PasswordHash(""), h.HashErr
	}
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) (bool, error) {
	if h.ValidateErr != nil {
		return false, h.ValidateErr
	}
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false, err
	}
	return actualHash == hash, nil
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Username == input.Username {
			return u, ErrUsernameAlreadyExists
		}
	}
	role := DefaultRole
	if input.Role.IsPresent {
		role = input.Role.Value
	}
	u = User{
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		Role:         role,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByUsername(ctx context.Context, username Username) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %v", username)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) Exists(ctx context.Context, username Username) (bool, error) {
	if r.ReturnError {
		return false, fmt.Errorf("could not check user %v", username)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeUserRepository) List(ctx context.Context) ([]User, error) {
	if r.ReturnError {
		return nil, fmt.Errorf("could not list users")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	users := make([]User, len(r.Users))
	copy(users, r.Users)
	return users, nil
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, username Username, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %v", username)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.Username == username {
			r.Users[ix].PasswordHash = password
			return nil
		}
	}
	return ErrUserDoesNotExist
}
