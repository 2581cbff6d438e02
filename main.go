package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/rmarin/portfolio-be/internal/api"
	"github.com/rmarin/portfolio-be/internal/auth"
	"github.com/rmarin/portfolio-be/internal/config"
	"github.com/rmarin/portfolio-be/internal/database"
	"github.com/rmarin/portfolio-be/internal/logger"
	"github.com/rmarin/portfolio-be/internal/mailer"
	"github.com/rmarin/portfolio-be/internal/services"
	"github.com/rmarin/portfolio-be/internal/uploads"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Ensure the base directory for uploads exists
	if err := os.MkdirAll(cfg.UploadPath, 0755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	profileService := services.NewProfileService(db)
	skillService := services.NewSkillService(db)
	projectService := services.NewProjectService(db)

	notifier := mailer.New(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass, cfg.NotifyEmail, cfg.EmailTimeout)
	if notifier == nil {
		log.Println("Email configuration is incomplete, contact notifications disabled")
	}
	var contactNotifier services.Notifier
	if notifier != nil {
		contactNotifier = notifier
	}
	contactService := services.NewContactService(db, contactNotifier, cfg.NotifyEmail)

	// The admin profile must exist before any request is served
	if err := profileService.Bootstrap(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to bootstrap admin profile: %v", err)
	}

	uploadStore := uploads.NewStore(cfg.UploadPath, cfg.MaxImageSizeMB, cfg.MaxResumeSizeMB)
	publicCache := cache.New(5*time.Minute, 10*time.Minute)

	// Set up router
	router := api.NewRouter(api.Deps{
		Tokens:         auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		Profiles:       profileService,
		Skills:         skillService,
		Projects:       projectService,
		Contacts:       contactService,
		Uploads:        uploadStore,
		Cache:          publicCache,
		UploadDir:      cfg.UploadPath,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
