package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// DefaultMaxUploadBytes is the upload size ceiling when none is configured.
const DefaultMaxUploadBytes = 64 << 20

// Config options for the HTTP server.
type Config struct {
	// MaxUploadBytes caps the body size of upload requests. Exceeding it
	// voids the announcement the upload was bound for.
	MaxUploadBytes int64

	// StaticDir, when set, is served read-only under /contents/ so bound
	// files are directly reachable. Only meaningful with the fs store.
	StaticDir string
}

// Server exposes the poicontent service over HTTP.
type Server struct {
	service poicontent.Service
	config  Config
}

// NewServer creates a new HTTP server wrapper around the service.
func NewServer(service poicontent.Service, config Config) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{service: service, config: config}
}

// Routes returns the full router: the /api tree plus optional static serving
// of the contents directory.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(CORSMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user", s.RegisterUser)
		r.Get("/login/", s.Login)

		r.Route("/content", func(r chi.Router) {
			r.Post("/", s.CreateContent)
			r.Get("/", s.ListContent)
			r.Get("/{id}", s.GetContent)
			r.Patch("/{id}", s.UpdateContent)
			r.Delete("/{id}", s.DeleteContent)
		})

		r.Post("/like", s.RecordLike)
		r.Post("/file/{token}", s.BindUpload)
	})

	if s.config.StaticDir != "" {
		fileServer := http.StripPrefix("/contents/", http.FileServer(http.Dir(s.config.StaticDir)))
		r.Get("/contents/*", fileServer.ServeHTTP)
	}

	return r
}
