package changepassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
	changepassword "credstore/internal/core/services/change_password"
	"credstore/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[changepassword.Input, changepassword.Result]
}

func New(service services.Service[changepassword.Input, changepassword.Result]) *Handler {
	return &Handler{service: service}
}

type Input struct {
	Username    string `json:"username"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Username, validation.Required, validation.Length(0, 512)),
		validation.Field(&i.OldPassword, validation.Required, validation.Length(0, 512)),
		validation.Field(
			&i.NewPassword,
			validation.Required,
			validation.Length(user.MinPasswordLength, user.MaxPasswordLength),
		),
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

	_, err := h.service.Run(
		r.Context(),
		changepassword.Input{
			Username:    user.Username(input.Username),
			OldPassword: user.RawPassword(input.OldPassword),
			NewPassword: user.RawPassword(input.NewPassword),
		},
	)
	var validationErr *user.ValidationError
	if errors.As(err, &validationErr) {
		response.RenderError(rw, validationErr.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, user.ErrInvalidCredentials) {
		response.RenderInvalidCredentials(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, struct{}{}, http.StatusOK)
}
