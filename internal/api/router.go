package api

import (
	"net/http"
	"time"

	// Registers the generated Swagger spec.
	_ "omnichat/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"omnichat/backend/internal/interfaces"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Provider *ProviderHandler
	Auth     *AuthHandler
	Session  *SessionHandler
	Tokens   interfaces.TokenService
}

// NewRouter creates the chi router with all application routes.
func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Uniform provider endpoints called by the dispatcher. Upstream calls are
	// bounded by the LLM HTTP client, not by a router timeout.
	r.Post("/api/ai/{provider}", h.Provider.HandleComplete)

	requireUser := RequireUser(h.Tokens)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Post("/auth/anonymous", h.Auth.HandleAnonymous)
			r.With(requireUser).Post("/auth/upgrade", h.Auth.HandleUpgrade)

			r.Group(func(r chi.Router) {
				r.Use(requireUser)

				r.Get("/session", h.Session.GetSession)
				r.Post("/session/messages", h.Session.SendMessage)
				r.Delete("/session/messages", h.Session.ClearMessages)
				r.Post("/session/chats", h.Session.NewChat)
				r.Put("/session/chats/current", h.Session.SelectChat)
				r.Delete("/session/chats/{chatID}", h.Session.DeleteChat)
				r.Put("/session/provider", h.Session.SetProvider)
			})
		})

		// Streaming routes must not have a timeout.
		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/session/events", h.Session.StreamEvents)
		})
	})

	// Static frontend for local development; production puts a proxy in front.
	fileServer := http.FileServer(http.Dir("./frontend/dist"))
	r.Handle("/*", http.StripPrefix("/", fileServer))

	return r
}
