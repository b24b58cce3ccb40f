package registeruser

import (
	"context"
	"errors"

	c "credstore/internal/core/domain/common"
	e "credstore/internal/core/domain/errors"
	"credstore/internal/core/domain/logging"
	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
)

type Input struct {
	Username user.Username
	Password user.RawPassword
	Role     c.Optional[user.Role]
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
	// Format rules are checked again here so the persistence layer can never
	// be reached with an invalid record, regardless of the transport.
	if err := user.ValidateUsername(input.Username); err != nil {
		return result, user.NewValidationError("username", err)
	}
	if err := user.ValidatePassword(input.Password); err != nil {
		return result, user.NewValidationError("password", err)
	}
	if input.Role.IsPresent {
		if err := user.ValidateRole(input.Role.Value); err != nil {
			return result, user.NewValidationError("role", err)
		}
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	createdUser, err := s.userRepository.Create(ctx, user.CreateUserInput{
		Username:     input.Username,
		PasswordHash: passwordHash,
		Role:         input.Role,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUsernameAlreadyExists) {
		s.log.Info(
			ctx,
			"User with the username already exists.",
			logging.Entry("username", input.Username),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create new user.",
			logging.Entry("username", input.Username),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "New user has been registered.", logging.Entry("username", createdUser.Username))
	return Result{User: createdUser}, nil
}
