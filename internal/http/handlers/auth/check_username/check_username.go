package checkusername

import (
	"net/http"

	"credstore/internal/core/domain/user"
	"credstore/internal/core/services"
	checkusername "credstore/internal/core/services/check_username"
	"credstore/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service services.Service[checkusername.Input, checkusername.Result]
}

func New(service services.Service[checkusername.Input, checkusername.Result]) *Handler {
	return &Handler{service: service}
}

type Result struct {
	Available bool `json:"available"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		response.RenderError(rw, "username is required", http.StatusBadRequest)
		return
	}
	if err := user.ValidateUsername(user.Username(username)); err != nil {
		response.RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), checkusername.Input{Username: user.Username(username)})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, Result{Available: !result.Exists}, http.StatusOK)
}
