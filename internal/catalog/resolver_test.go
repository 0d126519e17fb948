package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bleupos/promo-service/internal/models"
)

func TestFetchChoicesDeduplicatesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"ProductName":"Mocha","ProductCategory":"Coffee"},
			{"ProductName":"Latte","ProductCategory":"Coffee"},
			{"ProductName":"Latte","ProductCategory":"Coffee"},
			{"ProductName":"Cheesecake","ProductCategory":"Dessert"},
			{"ProductName":"","ProductCategory":""}
		]`))
	}))
	defer srv.Close()

	products, categories, err := NewResolver(srv.URL).FetchChoices(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cheesecake", "Latte", "Mocha"}, products)
	assert.Equal(t, []string{"Coffee", "Dessert"}, categories)
}

func TestFetchChoicesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("catalog exploded"))
	}))
	defer srv.Close()

	_, _, err := NewResolver(srv.URL).FetchChoices(context.Background(), "tok-123")
	require.Error(t, err)

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "catalog exploded")
}

func TestFetchChoicesNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, _, err := NewResolver(srv.URL).FetchChoices(context.Background(), "tok-123")
	require.Error(t, err)

	var unavailable *models.UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}
