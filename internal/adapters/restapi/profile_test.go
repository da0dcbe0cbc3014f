package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByEmailReturnsFirstRecord(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profiles/find", r.URL.Path)
		assert.Equal(t, "user@example.com", r.URL.Query().Get("email"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "p1", "email": "user@example.com"},
				{"id": "p2", "email": "user@example.com"},
			},
			"meta": map[string]any{"count": 2},
		})
	}))
	defer srv.Close()

	repo := NewProfileRepository(client)
	profile, err := repo.FindByEmail(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "p1", profile.ID)
}

func TestFindByEmailNoRecords(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{},
			"meta": map[string]any{"count": 0},
		})
	}))
	defer srv.Close()

	repo := NewProfileRepository(client)
	profile, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestFindByEmailNotFoundIsNoProfile(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	repo := NewProfileRepository(client)
	profile, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestFindByEmailBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close() // force a transport error

	repo := NewProfileRepository(NewClient(Options{BaseURL: srv.URL}))
	_, err := repo.FindByEmail(context.Background(), "user@example.com")

	require.Error(t, err)
}
