package image_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"aetherpix/internal/adapters/handlers/http/auth"
	"aetherpix/internal/adapters/handlers/http/chi"
	"aetherpix/internal/adapters/handlers/http/chi/v1/image"
	"aetherpix/internal/adapters/handlers/http/chi/v1/view"
	"aetherpix/internal/core/service/content"
	"aetherpix/internal/core/service/presign"
	"aetherpix/internal/core/service/upload"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "handler-secret"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(imageService *upload.MockImageService, presignService *presign.MockPresignService) http.Handler {
	imageHandler := image.NewImageHandlerV1(imageService, presignService, discardLogger)
	viewHandler := view.NewViewHandlerV1(content.NewMockContentService(), discardLogger)
	return chi.NewRouter(discardLogger, imageHandler, viewHandler, nil, jwtSecret, "")
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return "Bearer " + token
}
