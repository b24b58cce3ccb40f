package checkusername

import (
	"context"

	e "credstore/internal/core/domain/errors"
	"credstore/internal/core/domain/logging"
	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
)

type Input struct {
	Username user.Username
}

type Result struct {
	Exists bool
}

type service struct {
	log            logging.Logger
	userRepository user.Repository
}

func New(
	log logging.Logger,
	userRepository user.Repository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &service{log: log, userRepository: userRepository}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	exists, err := s.userRepository.Exists(ctx, input.Username)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not check username existence.",
			logging.Entry("username", input.Username),
			logging.Entry("err", err),
		)
		return result, err
	}
	return Result{Exists: exists}, nil
}
