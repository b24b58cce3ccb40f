package app

import (
	"net/http"
	"time"

	"credstore/internal/app/deps"
	"credstore/internal/app/services"
	changepassword "credstore/internal/http/handlers/auth/change_password"
	checkusername "credstore/internal/http/handlers/auth/check_username"
	login "credstore/internal/http/handlers/auth/log_in"
	registeruser "credstore/internal/http/handlers/auth/register_user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/register", registeruser.New(s.RegisterUser))
	authRouter.Method(http.MethodPost, "/login", login.New(s.LogIn))
	authRouter.Method(http.MethodPut, "/password", changepassword.New(s.ChangePassword))
	authRouter.Method(http.MethodGet, "/username/{username}", checkusername.New(s.CheckUsername))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)

	return &http.Server{
		Handler:           router,
		Addr:              deps.Config.Address,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       5 * time.Second,
	}
}
