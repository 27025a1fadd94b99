package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"connectApp/internal/service"
)

type FollowRequest struct {
	FollowID string `json:"follow_id" validate:"required"`
}

type UnfollowRequest struct {
	UnfollowID string `json:"unfollow_id" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializeUserProfile(profile), http.StatusOK)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Некорректная multipart-форма", http.StatusBadRequest)
		return
	}

	req := service.UpdateUserRequest{}
	if values, ok := r.MultipartForm.Value["username"]; ok && len(values) > 0 {
		req.Username = &values[0]
	}
	if values, ok := r.MultipartForm.Value["email"]; ok && len(values) > 0 {
		req.Email = &values[0]
	}

	if file, header, err := r.FormFile("profilePicture"); err == nil {
		defer file.Close()
		req.Picture = &service.UploadFile{
			FileName: header.Filename,
			Reader:   file,
			Size:     header.Size,
		}
	}

	profile, err := h.UserService.UpdateUser(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializeUserProfile(profile), http.StatusOK)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := h.UserService.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "User deleted successfully"}, http.StatusOK)
}

func (h *Handlers) FollowUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Некорректное тело запроса", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "follow_id is required", http.StatusBadRequest)
		return
	}

	if err := h.UserService.FollowUser(r.Context(), userID, req.FollowID); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{
		Message: fmt.Sprintf("%s followed %s", userID, req.FollowID),
	}, http.StatusOK)
}

func (h *Handlers) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req UnfollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Некорректное тело запроса", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "unfollow_id is required", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UnfollowUser(r.Context(), userID, req.UnfollowID); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{
		Message: fmt.Sprintf("%s unfollowed %s", userID, req.UnfollowID),
	}, http.StatusOK)
}

func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.UserService.SearchUsers(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializeSearchResults(results), http.StatusOK)
}
