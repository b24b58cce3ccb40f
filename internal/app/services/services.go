package services

import (
	"credstore/internal/app/deps"
	"credstore/internal/core/services"
	changepassword "credstore/internal/core/services/change_password"
	checkusername "credstore/internal/core/services/check_username"
	login "credstore/internal/core/services/log_in"
	registeruser "credstore/internal/core/services/register_user"
)

type Services struct {
	RegisterUser   services.Service[registeruser.Input, registeruser.Result]
	LogIn          services.Service[login.Input, login.Result]
	CheckUsername  services.Service[checkusername.Input, checkusername.Result]
	ChangePassword services.Service[changepassword.Input, changepassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.RegisterUser = registeruser.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
	)
	s.LogIn = login.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
	)
	s.CheckUsername = checkusername.New(
		deps.Logger,
		deps.UserRepository,
	)
	s.ChangePassword = changepassword.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
	)

	return s
}
