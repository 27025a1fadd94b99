package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"connectApp/internal/config"
	"connectApp/internal/database"
	"connectApp/internal/service"
)

type Handlers struct {
	UserService service.UserService
	PostService service.PostService
	DB          database.MethodsDB
	Cfg         *config.Config
	Validate    *validator.Validate
}

func NewHandlers(services *service.Service, db database.MethodsDB, config *config.Config) *Handlers {
	return &Handlers{
		UserService: services.User,
		PostService: services.Post,
		DB:          db,
		Cfg:         config,
		Validate:    validator.New(),
	}
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{"service": "connect-user-service"}, http.StatusOK)
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		WriteError(w, "База данных недоступна: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
