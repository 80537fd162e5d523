// Package http wires the evaluation API: catalog browsing, session
// answer recording, score/progress computation and text export.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/session"
)

// Options carries everything the router needs.
type Options struct {
	Catalog     *catalog.Store
	Sessions    session.Store
	Logger      *zap.Logger
	CORSOrigins []string
	ReportTitle string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(opts.Logger), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Get("/catalog", ListQuestionnairesHandler(opts.Catalog))
	r.Get("/catalog/{page}", GetQuestionnaireHandler(opts.Catalog))

	r.Post("/sessions", CreateSessionHandler(opts.Sessions))
	r.Route("/sessions/{sessionID}", func(sr chi.Router) {
		sr.Get("/", GetSessionHandler(opts.Sessions))
		sr.Put("/answers", PutAnswerHandler(opts.Sessions, opts.Catalog))
		sr.Post("/answers/import", ImportAnswersHandler(opts.Sessions, opts.Catalog))
		sr.Post("/cursor", SetCursorHandler(opts.Sessions, opts.Catalog))
		sr.Get("/scores", GetScoresHandler(opts.Sessions, opts.Catalog))
		sr.Get("/progress", GetProgressHandler(opts.Sessions, opts.Catalog))
		sr.Get("/export", ExportHandler(opts.Sessions, opts.Catalog, opts.ReportTitle))
		sr.Post("/reset", ResetSessionHandler(opts.Sessions))
	})

	return r
}
