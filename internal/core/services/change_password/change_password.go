package changepassword

import (
	"context"
	"errors"

	e "credstore/internal/core/domain/errors"
	"credstore/internal/core/domain/logging"
	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
)

type Input struct {
	Username    user.Username
	OldPassword user.RawPassword
	NewPassword user.RawPassword
}

type Result struct{}

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
	if err := user.ValidatePassword(input.NewPassword); err != nil {
		return result, user.NewValidationError("new password", err)
	}

	u, err := s.userRepository.GetByUsername(ctx, input.Username)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.passwordHasher.HashPassword(input.OldPassword)
		return result, user.ErrInvalidCredentials
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

	ok, err := s.passwordHasher.ValidatePassword(input.OldPassword, u.PasswordHash)
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

	newHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}
	if err := s.userRepository.SetPassword(ctx, input.Username, newHash); err != nil {
		s.log.Error(
			ctx,
			"Could not set new password.",
			logging.Entry("username", input.Username),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "Password has been changed.", logging.Entry("username", input.Username))
	return result, nil
}
