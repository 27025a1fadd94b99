package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"connectApp/internal/repository"
	"connectApp/internal/service"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError переводит ошибку движка в HTTP-статус
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrPostNotFound):
		WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, err.Error(), http.StatusForbidden)
	default:
		WriteError(w, err.Error(), http.StatusInternalServerError)
	}
}
