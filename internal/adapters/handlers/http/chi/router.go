package chi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aetherpix/internal/adapters/handlers/http/auth"
	"aetherpix/internal/adapters/handlers/http/chi/v1/image"
	"aetherpix/internal/adapters/handlers/http/chi/v1/view"
	"aetherpix/internal/adapters/handlers/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds http.Handler with chi. metrics may be nil.
func NewRouter(logger *slog.Logger, imageHandler *image.HandlerV1, viewHandler *view.HandlerV1, metrics http.Handler, jwtSecret, env string) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if !strings.EqualFold(env, "prod") {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match", "X-Request-ID"},
			ExposedHeaders:   []string{"ETag"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate(jwtSecret, logger))
		r.Mount("/view", viewHandler.Routes())
		r.Mount("/", imageHandler.Routes())
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		})
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
