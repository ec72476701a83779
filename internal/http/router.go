// Package http assembles the API router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docuvault/internal/blob"
	"docuvault/internal/handlers"
	"docuvault/internal/ingest"
	"docuvault/internal/rag"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Users             storage.UserStore
	Documents         storage.DocumentStore
	Activities        storage.ActivityStore
	Blobs             *blob.Store
	Vectors           vectorstore.VectorStore
	Pipeline          *ingest.Pipeline
	Engine            rag.Engine
	Collection        string
	MaxFileSize       int64
	AllowedExtensions []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	documentHandler := handlers.NewDocumentHandler(
		deps.Documents, deps.Activities, deps.Blobs, deps.Vectors, deps.Pipeline,
		deps.Collection, deps.MaxFileSize, deps.AllowedExtensions,
	)
	questionHandler := handlers.NewQuestionHandler(deps.Engine)
	suggestHandler := handlers.NewSuggestHandler(deps.Documents)
	indexDebugHandler := handlers.NewIndexDebugHandler(deps.Documents, deps.Vectors, deps.Collection)
	activityHandler := handlers.NewActivityHandler(deps.Activities)
	healthHandler := handlers.NewHealthHandler(deps.Vectors, deps.Collection)

	r.Method(http.MethodGet, "/api/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Identity(deps.Users))

		r.Route("/documents", func(r chi.Router) {
			r.Post("/upload", documentHandler.Upload)
			r.Get("/", documentHandler.List)
			r.Get("/{id}", documentHandler.Get)
			r.Delete("/{id}", documentHandler.Delete)
			r.Post("/{id}/reprocess", documentHandler.Reprocess)
		})

		r.Route("/search", func(r chi.Router) {
			r.Method(http.MethodPost, "/question", questionHandler)
			r.Method(http.MethodGet, "/suggestions", suggestHandler)
			r.Method(http.MethodGet, "/debug/index", indexDebugHandler)
		})

		r.Method(http.MethodGet, "/activity/recent", activityHandler)
	})

	return r
}
