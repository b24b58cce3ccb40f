package login

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
	login "credstore/internal/core/services/log_in"
	"credstore/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[login.Input, login.Result]
}

func New(service services.Service[login.Input, login.Result]) *Handler {
	return &Handler{service: service}
}

type Input struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Result struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Username, validation.Required, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 512)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		login.Input{Username: user.Username(input.Username), Password: user.RawPassword(input.Password)},
	)
	if errors.Is(err, user.ErrUserDoesNotExist) || errors.Is(err, user.ErrInvalidCredentials) {
		response.RenderInvalidCredentials(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(
		rw,
		Result{Username: string(result.User.Username), Role: string(result.User.Role)},
		http.StatusOK,
	)
}
