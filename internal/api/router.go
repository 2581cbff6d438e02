package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/patrickmn/go-cache"

	"github.com/rmarin/portfolio-be/internal/api/handlers"
	"github.com/rmarin/portfolio-be/internal/auth"
	"github.com/rmarin/portfolio-be/internal/services"
	"github.com/rmarin/portfolio-be/internal/uploads"
)

// Deps bundles everything the router needs.
type Deps struct {
	Tokens         *auth.Manager
	Profiles       services.ProfileServiceProvider
	Skills         services.SkillServiceProvider
	Projects       services.ProjectServiceProvider
	Contacts       services.ContactServiceProvider
	Uploads        *uploads.Store
	Cache          *cache.Cache
	UploadDir      string
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Profiles, deps.Tokens)
	profileHandler := handlers.NewProfileHandler(deps.Profiles, deps.Uploads, deps.Cache)
	skillHandler := handlers.NewSkillHandler(deps.Skills, deps.Cache)
	projectHandler := handlers.NewProjectHandler(deps.Projects, deps.Uploads, deps.Cache)
	contactHandler := handlers.NewContactHandler(deps.Contacts)

	requireAuth := deps.Tokens.Middleware(deps.Profiles)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/public", profileHandler.GetPublic)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", profileHandler.GetMe)
				r.Patch("/", profileHandler.Update)
				r.Patch("/credentials", profileHandler.UpdateCredentials)
				r.Post("/upload-image", profileHandler.UploadImage)
				r.Post("/upload-resume", profileHandler.UploadResume)
			})
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/public", skillHandler.ListPublic)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", skillHandler.List)
				r.Post("/", skillHandler.Create)
				r.Put("/{id}", skillHandler.Update)
				r.Delete("/{id}", skillHandler.Delete)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", projectHandler.Create)
				r.Post("/upload-image", projectHandler.UploadImage)
				r.Put("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", contactHandler.Submit)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", contactHandler.List)
				r.Patch("/{id}", contactHandler.UpdateStatus)
			})
		})
	})

	// Serve uploaded files as static content
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
