// This is the main entry point of the notefeed application. It is
// responsible for loading configuration, connecting to the database and
// running migrations, wiring services and handlers together, setting up the
// HTTP router and middleware, and starting the server with graceful
// shutdown.
//
// @title Notefeed API
// @version 1.0
// @description A note-sharing API: accounts, notes, favorites, and a cursor-paginated feed.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/auth"
	"github.com/user/notefeed-go/config"
	"github.com/user/notefeed-go/db"
	"github.com/user/notefeed-go/notes"
	"github.com/user/notefeed-go/users"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// .env loading is a development convenience; in production the variables
	// are set directly.
	if err := godotenv.Load(); err != nil {
		log.Warnf(".env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire stores, services, and handlers. Dependencies are injected
	// explicitly via constructors; there is no global state beyond the pool.
	userStore := auth.NewPGUserStore(pool)
	noteStore := notes.NewPGStore(pool)

	authService := auth.NewAuthService(userStore, log, cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewUserService(userStore)
	userHandlers := users.NewHandlers(userService)

	noteService := notes.NewNoteService(noteStore, log)
	noteHandlers := notes.NewHandlers(noteService)

	r := chi.NewRouter()

	// Global middleware. Chi requires all middleware to be registered before
	// any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that keeps error responses in the apperror JSON shape.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Errorf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	// Every operation accepts an optional bearer token: a missing token
	// means an anonymous caller, an invalid one fails the request outright.
	identity := auth.IdentityMiddleware(cfg.Auth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandlers.HandleSignUp())
		r.Post("/signin", authHandlers.HandleSignIn())
	})

	r.Route("/api/v1/notes", func(r chi.Router) {
		r.Use(identity)
		noteHandlers.RegisterRoutes(r)
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(identity)
		userHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so the main goroutine can wait for
	// shutdown signals.
	go func() {
		log.Infof("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware, kept
// separate to avoid depending on a feature package from main.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
