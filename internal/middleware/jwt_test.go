package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"videotube/internal/config"
	"videotube/internal/models"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testAuth() *Authenticator {
	return NewAuthenticator(&config.AuthConfig{JWTSecret: "test-secret", Issuer: "videotube-test"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	auth := testAuth()
	userID := primitive.NewObjectID()

	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.UserID)
	assert.Equal(t, "videotube-test", claims.Issuer)
}

func TestValidateTokenRejects(t *testing.T) {
	auth := testAuth()
	userID := primitive.NewObjectID()

	other := NewAuthenticator(&config.AuthConfig{JWTSecret: "other-secret", Issuer: "videotube-test"})
	forged, err := other.GenerateToken(userID)
	require.NoError(t, err)
	_, err = auth.ValidateToken(forged)
	assert.Error(t, err, "wrong signing key")

	wrongIssuer := NewAuthenticator(&config.AuthConfig{JWTSecret: "test-secret", Issuer: "someone-else"})
	token, err := wrongIssuer.GenerateToken(userID)
	require.NoError(t, err)
	_, err = auth.ValidateToken(token)
	assert.Error(t, err, "wrong issuer")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    "videotube-test",
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.Error(t, err, "expired")

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	auth := testAuth()
	userID := primitive.NewObjectID()
	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)

	var seen primitive.ObjectID
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusUnauthorized {
				var body models.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.False(t, body.Success)
				assert.Equal(t, http.StatusUnauthorized, body.Status)
			}
		})
	}
	assert.Equal(t, userID, seen)
}

func TestAuthMiddlewareRejectsNonObjectIDSubject(t *testing.T) {
	auth := testAuth()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "not-an-object-id",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "videotube-test",
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	called := false
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
