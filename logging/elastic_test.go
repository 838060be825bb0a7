package logging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestElasticBackend_IndexesEvent(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		user string
		doc  map[string]any
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.Path
		user, _, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&doc)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	backend := NewElasticBackend(server.URL, "elastic", "secret", "backend-logs", zap.NewNop())

	err := backend.Write(context.Background(), Event{
		ID:     "evt-1",
		Name:   "room_reserved",
		Time:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Fields: map[string]any{"room_id": 7},
	})

	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/backend-logs/_doc", path)
	assert.Equal(t, "elastic", user)
	assert.Equal(t, "room_reserved", doc["message"])
	assert.Equal(t, "evt-1", doc["event_id"])
	assert.Equal(t, float64(7), doc["room_id"])
	assert.NotEmpty(t, doc["timestamp"])
}

func TestElasticBackend_ReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	backend := NewElasticBackend(server.URL, "", "", "backend-logs", zap.NewNop())

	err := backend.Write(context.Background(), Event{ID: "evt-2", Name: "room_created", Time: time.Now()})

	assert.Error(t, err)
}
