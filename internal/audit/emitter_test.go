package audit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDeliversRecord(t *testing.T) {
	var mu sync.Mutex
	var got logRecord
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	e := NewEmitter(srv.URL)
	e.Emit("tok-123", Event{
		Service:     "DISCOUNTS_SERVICE",
		Action:      "CREATE",
		EntityType:  "Discount",
		EntityID:    7,
		Actor:       "alice",
		Description: "Created discount: SALE10",
		Data:        map[string]interface{}{"name": "SALE10"},
	})
	e.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer tok-123", auth)
	assert.Equal(t, "DISCOUNTS_SERVICE", got.ServiceIdentifier)
	assert.Equal(t, "CREATE", got.Action)
	assert.Equal(t, "Discount", got.EntityType)
	assert.Equal(t, 7, got.EntityID)
	assert.Equal(t, "alice", got.ActorUsername)
	assert.Equal(t, "Created discount: SALE10", got.ChangeDescription)
	assert.Equal(t, "SALE10", got.Data["name"])
}

func TestEmitSwallowsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := NewEmitter(srv.URL)
	// must not panic, block, or surface anything
	e.Emit("tok-123", Event{Action: "DELETE", EntityType: "Promotion", EntityID: 1})
	e.Wait()
}

func TestEmitSwallowsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	e := NewEmitter(srv.URL)
	e.Emit("tok-123", Event{Action: "CREATE", EntityType: "Discount", EntityID: 2})
	e.Wait()
}
