package login

import (
	"context"
	"errors"

	e "credstore/internal/core/domain/errors"
	"credstore/internal/core/domain/logging"
	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
)

type Input struct {
	Username user.Username
	Password user.RawPassword
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.Repository
	passwordHasher user.PasswordHasher
}

func New(
	log logging.Logger,
	userRepository user.Repository,
	passwordHasher user.PasswordHasher,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByUsername(ctx, input.Username)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Minimize risk for timing attacks
		s.passwordHasher.HashPassword(input.Password)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not load user.",
			logging.Entry("username", input.Username),
			logging.Entry("err", err),
		)
		return result, err
	}

	ok, err := s.passwordHasher.ValidatePassword(input.Password, u.PasswordHash)
	if err != nil {
		s.log.Error(
			ctx,
			"Stored password hash is corrupted.",
			logging.Entry("username", input.Username),
			logging.Entry("err", err),
		)
		return result, err
	}
	if !ok {
		return result, user.ErrInvalidCredentials
	}

	s.log.Info(ctx, "User successfully authenticated.", logging.Entry("username", u.Username))
	return Result{User: u}, nil
}
