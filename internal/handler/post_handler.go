package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"connectApp/internal/models"
	"connectApp/internal/service"
)

type UpdatePostRequest struct {
	Description *string `json:"description" validate:"required"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type PostsResponse struct {
	Posts []PostResponse `json:"posts"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Некорректная multipart-форма", http.StatusBadRequest)
		return
	}

	req := service.CreatePostRequest{
		Description: r.FormValue("description"),
		Mentions:    splitMentions(r.FormValue("mentions")),
		Location:    parseLocation(r.FormValue("lat"), r.FormValue("lng")),
	}

	if file, header, err := r.FormFile("media"); err == nil {
		defer file.Close()
		req.Media = &service.UploadFile{
			FileName: header.Filename,
			Reader:   file,
			Size:     header.Size,
		}
	}

	post, err := h.PostService.CreatePost(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializePost(*post), http.StatusCreated)
}

// GetPosts обслуживает оба варианта пути /{userId}/posts/{postIds}:
// одиночный идентификатор отдаёт подгруженный пост, список через
// запятую - пакетную выборку
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	rawIDs := vars["postIds"]

	if !strings.Contains(rawIDs, ",") {
		detail, err := h.PostService.GetPost(r.Context(), rawIDs)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		WriteSuccess(w, serializePostDetail(detail), http.StatusOK)
		return
	}

	ids := []string{}
	for _, id := range strings.Split(rawIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	posts, err := h.PostService.GetMultiplePosts(r.Context(), userID, ids)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, PostsResponse{Posts: serializePosts(posts)}, http.StatusOK)
}

func (h *Handlers) GetFeedPosts(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	posts, err := h.PostService.GetFeedPosts(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializePosts(posts), http.StatusOK)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Некорректное тело запроса", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Missing description in request body", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), postID, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"message":     "Post updated successfully",
		"description": post.Description,
	}, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.PostService.DeletePost(r.Context(), vars["userId"], vars["postId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Post deleted successfully"}, http.StatusOK)
}

func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	post, err := h.PostService.LikePost(r.Context(), vars["userId"], vars["postId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializePost(*post), http.StatusOK)
}

func (h *Handlers) UnlikePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	post, err := h.PostService.UnlikePost(r.Context(), vars["userId"], vars["postId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializePost(*post), http.StatusOK)
}

func (h *Handlers) CommentOnPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// тело принимаем и как JSON, и как форму
	var text string
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			text = req.Text
		}
	} else {
		if err := r.ParseForm(); err == nil {
			text = r.FormValue("text")
		}
	}

	detail, err := h.PostService.CommentOnPost(r.Context(), vars["userId"], vars["postId"], text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, serializePostDetail(detail), http.StatusCreated)
}

func splitMentions(raw string) []string {
	if raw == "" {
		return nil
	}

	mentions := []string{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			mentions = append(mentions, id)
		}
	}
	return mentions
}

func parseLocation(rawLat, rawLng string) *models.Location {
	if rawLat == "" || rawLng == "" {
		return nil
	}

	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lng, errLng := strconv.ParseFloat(rawLng, 64)
	if errLat != nil || errLng != nil {
		return nil
	}

	return &models.Location{Lat: lat, Lng: lng}
}
