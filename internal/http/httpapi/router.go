package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sharecircle/internal/http/handlers"
	"sharecircle/internal/infra"
	"sharecircle/internal/middleware"
)

// NewRouter wires the HTTP surface: public catalog reads, authenticated
// exchange operations and the uploads file server.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
		r.Get("/items", app.ItemsList)
		r.Get("/items/{id}", app.ItemsGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired(cfg.JWTSecret))

			r.Post("/items", app.ItemsCreate)
			r.Post("/requests", app.RequestsCreate)
			r.Get("/requests", app.RequestsList)
			r.Patch("/requests/{id}", app.RequestsUpdate)
			r.Post("/questions", app.QuestionsCreate)
			r.Patch("/questions/{id}/answer", app.QuestionsAnswer)
			r.Post("/logistics", app.LogisticsCreate)
			r.Patch("/logistics/{id}", app.LogisticsUpdate)
			r.Get("/admin/stats", app.AdminStats)
		})
	})

	if app.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
