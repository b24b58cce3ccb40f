package registeruser

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	c "credstore/internal/core/domain/common"
	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
	registeruser "credstore/internal/core/services/register_user"
	"credstore/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[registeruser.Input, registeruser.Result]
}

func New(service services.Service[registeruser.Input, registeruser.Result]) *Handler {
	return &Handler{service: service}
}

type Input struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
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
		validation.Field(
			&i.Username,
			validation.Required,
			validation.Length(user.MinUsernameLength, user.MaxUsernameLength),
			is.Alphanumeric,
		),
		validation.Field(
			&i.Password,
			validation.Required,
			validation.Length(user.MinPasswordLength, user.MaxPasswordLength),
		),
		validation.Field(
			&i.Role,
			validation.Length(0, user.MaxRoleLength),
			validation.Match(user.RolePattern),
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

	result, err := h.service.Run(
		r.Context(),
		registeruser.Input{
			Username: user.Username(input.Username),
			Password: user.RawPassword(input.Password),
			Role:     c.NewOptional(user.Role(input.Role), input.Role != ""),
		},
	)
	var validationErr *user.ValidationError
	if errors.As(err, &validationErr) {
		response.RenderError(rw, validationErr.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, user.ErrUsernameAlreadyExists) {
		response.RenderError(rw, "username already exists", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(
		rw,
		Result{Username: string(result.User.Username), Role: string(result.User.Role)},
		http.StatusCreated,
	)
}
