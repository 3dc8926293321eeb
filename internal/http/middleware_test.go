package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authProtected(apiKey string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return BearerAuth(apiKey)(next)
}

func TestBearerAuth_ValidToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/checkouts/cs_1", nil)
	req.Header.Set("Authorization", "Bearer sk_test_key")

	authProtected("sk_test_key").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/checkouts/cs_1", nil)

	authProtected("sk_test_key").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_auth", decodeErrorBody(t, rec).Error.Code)
}

func TestBearerAuth_NotBearerScheme(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/checkouts/cs_1", nil)
	req.Header.Set("Authorization", "Basic c2s6dGVzdA==")

	authProtected("sk_test_key").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_WrongToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/checkouts/cs_1", nil)
	req.Header.Set("Authorization", "Bearer sk_wrong_key")

	authProtected("sk_test_key").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "invalid_auth", decodeErrorBody(t, rec).Error.Code)
}

func TestBearerAuth_UnconfiguredKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/checkouts/cs_1", nil)
	req.Header.Set("Authorization", "Bearer anything")

	authProtected("").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
