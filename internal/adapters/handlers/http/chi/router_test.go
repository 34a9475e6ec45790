package chi_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"aetherpix/internal/adapters/handlers/http/chi"
	"aetherpix/internal/adapters/handlers/http/chi/v1/image"
	"aetherpix/internal/adapters/handlers/http/chi/v1/view"
	"aetherpix/internal/core/service/content"
	"aetherpix/internal/core/service/presign"
	"aetherpix/internal/core/service/upload"

	"github.com/stretchr/testify/assert"
)

func newRouter(metrics http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	imageHandler := image.NewImageHandlerV1(upload.NewMockImageService(), presign.NewMockPresignService(), logger)
	viewHandler := view.NewViewHandlerV1(content.NewMockContentService(), logger)
	return chi.NewRouter(logger, imageHandler, viewHandler, metrics, "secret", "prod")
}

func TestRouter_Health(t *testing.T) {
	// Arrange
	h := newRouter(nil)
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_Metrics(t *testing.T) {
	// Arrange
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "aetherpix_up 1\n")
	})
	h := newRouter(metrics)
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "aetherpix_up")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	// Arrange
	h := newRouter(nil)
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}
