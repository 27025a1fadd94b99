package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"connectApp/cmd/app"
	"connectApp/internal/config"
	handlers "connectApp/internal/handler"
	"connectApp/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	db, activityLogger, services := app.App(context.Background(), cfg)
	defer db.CloseDB(context.Background())
	defer activityLogger.Close()

	handler := handlers.NewHandlers(services, db, cfg)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/", handlers.HomeHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/users").Subrouter()

	// search регистрируется до /{userId}, иначе "search" ловится как id
	api.HandleFunc("/search/query", handler.SearchUsers).Methods(http.MethodGet)

	api.HandleFunc("/{userId}", handler.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/{userId}", handler.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/{userId}", handler.DeleteUser).Methods(http.MethodDelete)

	api.HandleFunc("/{userId}/follow", handler.FollowUser).Methods(http.MethodPut)
	api.HandleFunc("/{userId}/unfollow", handler.UnfollowUser).Methods(http.MethodPut)

	api.HandleFunc("/{userId}/posts", handler.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/{userId}/feed/posts", handler.GetFeedPosts).Methods(http.MethodGet)
	api.HandleFunc("/{userId}/posts/{postIds}", handler.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/{userId}/posts/{postId}/update", handler.UpdatePost).Methods(http.MethodPut)
	api.HandleFunc("/{userId}/posts/{postId}/delete", handler.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/{userId}/posts/{postId}/like", handler.LikePost).Methods(http.MethodPost)
	api.HandleFunc("/{userId}/posts/{postId}/unlike", handler.UnlikePost).Methods(http.MethodPost)
	api.HandleFunc("/{userId}/posts/{postId}/comment", handler.CommentOnPost).Methods(http.MethodPost)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
		middleware.AuthMiddleware(cfg),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.Mongo.Database)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
