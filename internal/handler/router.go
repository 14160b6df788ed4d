package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	conversationHandler "github.com/couchtalk/backend/internal/handler/conversation"
	personaHandler "github.com/couchtalk/backend/internal/handler/persona"
	speechHandler "github.com/couchtalk/backend/internal/handler/speech"
	personaModel "github.com/couchtalk/backend/internal/model/persona"
	"github.com/couchtalk/backend/internal/service/pipeline"
	"github.com/couchtalk/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. The static handler, when
// present, serves the browser client from the root path.
func NewRouter(personas personaModel.Store, pipe *pipeline.Service, static http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		personaHandler.New(personas).RegisterRoutes(api)
		speechHandler.New(pipe).RegisterRoutes(api)
		conversationHandler.New(pipe).RegisterRoutes(api)
	})

	if static != nil {
		r.Handle("/*", static)
	}

	return r
}
