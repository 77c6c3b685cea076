package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/mohitjoer/travel-planner/internal/config"
	"github.com/mohitjoer/travel-planner/internal/database"
	"github.com/mohitjoer/travel-planner/internal/handlers"
	"github.com/mohitjoer/travel-planner/internal/repository"
	"github.com/mohitjoer/travel-planner/internal/services"
	"github.com/mohitjoer/travel-planner/internal/uploader"
	"github.com/mohitjoer/travel-planner/pkg/logger"
	"github.com/mohitjoer/travel-planner/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	itineraryService := services.NewItineraryService(itineraryRepo)

	// --- Media uploader ---
	mediaUploader := uploader.NewLocalUploader(cfg.UploadDir, cfg.PublicBaseURL)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	itineraryHandler := handlers.NewItineraryHandler(itineraryService, mediaUploader)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")

	// Itinerary routes (all require a session)
	protectedRoutes := router.PathPrefix("/itineraries").Subrouter()
	protectedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedRoutes.HandleFunc("", itineraryHandler.CreateItineraryHandler).Methods("POST")
	protectedRoutes.HandleFunc("", itineraryHandler.GetItinerariesHandler).Methods("GET")
	protectedRoutes.HandleFunc("/search", itineraryHandler.SearchItinerariesHandler).Methods("POST")
	protectedRoutes.HandleFunc("/{id}", itineraryHandler.GetItineraryHandler).Methods("GET")
	protectedRoutes.HandleFunc("/{id}", itineraryHandler.UpdateItineraryHandler).Methods("PUT")
	protectedRoutes.HandleFunc("/{id}", itineraryHandler.DeleteItineraryHandler).Methods("DELETE")
	protectedRoutes.HandleFunc("/{id}/favorite", itineraryHandler.ToggleFavoriteHandler).Methods("POST")
	protectedRoutes.HandleFunc("/{id}/photos", itineraryHandler.UploadPhotosHandler).Methods("POST")

	// Locally hosted media
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	port := cfg.Port
	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
