package user

import (
	"context"

	c "credstore/internal/core/domain/common"
)

type CreateUserInput struct {
	Username     Username
	PasswordHash PasswordHash
	Role         c.Optional[Role]
}

type Repository interface {
	// Create inserts a new user record. Returns ErrUsernameAlreadyExists
	// without mutating storage if the username is taken.
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByUsername(ctx context.Context, username Username) (User, error)
	Exists(ctx context.Context, username Username) (bool, error)
	List(ctx context.Context) ([]User, error)
	SetPassword(ctx context.Context, username Username, password PasswordHash) error
}
