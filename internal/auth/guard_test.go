package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bleupos/promo-service/internal/models"
)

func identityServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestAuthorizeAllowedRole(t *testing.T) {
	srv := identityServer(t, http.StatusOK, `{"username":"alice","userRole":"admin"}`)
	defer srv.Close()

	user, err := NewGuard(srv.URL).Authorize(context.Background(), "tok-123", "admin")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "admin", user.Role)
}

func TestAuthorizeRoleNotInAllowList(t *testing.T) {
	srv := identityServer(t, http.StatusOK, `{"username":"bob","userRole":"cashier"}`)
	defer srv.Close()

	_, err := NewGuard(srv.URL).Authorize(context.Background(), "tok-123", "admin")
	require.Error(t, err)

	var forbidden *models.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "cashier", forbidden.Role)
}

func TestAuthorizePropagatesUpstreamStatus(t *testing.T) {
	srv := identityServer(t, http.StatusUnauthorized, `{"detail":"invalid token"}`)
	defer srv.Close()

	_, err := NewGuard(srv.URL).Authorize(context.Background(), "tok-123", "admin")
	require.Error(t, err)

	var authErr *models.AuthServiceError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "invalid token")
}

func TestAuthorizeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable from here on

	_, err := NewGuard(srv.URL).Authorize(context.Background(), "tok-123", "admin")
	require.Error(t, err)

	var unavailable *models.UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}
