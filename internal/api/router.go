package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avelar/chatvault-be/internal/api/handlers"
	"github.com/avelar/chatvault-be/internal/auth"
	"github.com/avelar/chatvault-be/internal/config"
	"github.com/avelar/chatvault-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, tokens *auth.TokenManager, cookies *auth.CookieManager, userService services.UserServiceProvider, chatService services.ChatServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The session lives in a cookie, so the frontend origin must be allowed
	// to send credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, cookies)
	chatHandler := handlers.NewChatHandler(chatService)
	session := auth.SessionMiddleware(tokens, cookies)

	r.Get("/healthz", handlers.Health)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Get("/", userHandler.GetAll)
			r.Post("/signup", userHandler.Signup)
			r.Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(session)
				r.Get("/logout", userHandler.Logout)
				r.Get("/auth-status", userHandler.AuthStatus)
				r.Get("/get-user-data", userHandler.GetUserData)
			})
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(session)
			r.Post("/new", chatHandler.NewTurn)
			r.Get("/all-chats", chatHandler.ListTurns)
			r.Delete("/delete", chatHandler.DeleteTurns)
		})
	})

	if cfg.StaticDir != "" {
		mountStatic(r, cfg.StaticDir)
	}

	return r
}

// mountStatic serves the built frontend, falling back to index.html so
// client-side routes resolve on page refresh.
func mountStatic(r *chi.Mux, dir string) {
	fileServer := http.FileServer(http.Dir(dir))

	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, filepath.Join(dir, "index.html"))
	})
}
