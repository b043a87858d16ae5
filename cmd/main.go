package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cleannest/api-marketplace/internal/auth"
	"github.com/cleannest/api-marketplace/internal/contact"
	"github.com/cleannest/api-marketplace/internal/user"
	"github.com/cleannest/api-marketplace/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	_ = godotenv.Load()

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("could not connect to the database: ", err)
	}

	if err := database.AutoMigrate(
		&user.User{},
		&auth.RefreshToken{},
		&contact.ContactMessage{},
	); err != nil {
		log.Fatal("automigrate failed: ", err)
	}

	cfg, err := auth.ConfigFromEnv()
	if err != nil {
		log.Fatal("auth config: ", err)
	}

	users := user.NewRepository()
	store := auth.NewStore()
	service := auth.NewService(cfg, store, users)
	gate := auth.NewGate(database, service.Codec(), users)

	authHandler := auth.NewHandler(database, service)
	contactHandler := contact.NewHandler(database)

	r := mux.NewRouter()

	// session lifecycle
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	r.HandleFunc("/auth/password-reset/request", authHandler.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset).Methods("POST")

	// contact form (public submit, admin-gated inbox)
	r.HandleFunc("/contact", contactHandler.Submit).Methods("POST")
	admin := r.PathPrefix("/contact/admin").Subrouter()
	admin.Use(gate.Authenticate, auth.RequireRole(user.RoleAdmin))
	admin.HandleFunc("", contactHandler.AdminList).Methods("GET")
	admin.HandleFunc("/{id}", contactHandler.AdminGet).Methods("GET")

	// reaper for long-dead refresh tokens; purely housekeeping
	go func() {
		for range time.Tick(24 * time.Hour) {
			n, err := store.PurgeStale(database, time.Now().Add(-30*24*time.Hour))
			if err != nil {
				log.Printf("refresh token purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("purged %d stale refresh tokens", n)
			}
		}
	}()

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	fmt.Println("Server listening on http://localhost:8080")
	log.Fatal(http.ListenAndServe(":8080", handler))
}
