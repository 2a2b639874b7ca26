package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/model"
)

type mockLookup struct {
	matches []model.ActivityMatch
	err     error
}

func (m *mockLookup) Search(ctx context.Context, activity, destination string) ([]model.ActivityMatch, error) {
	return m.matches, m.err
}

type mockCatalogStore struct {
	dest    *model.Destination
	destErr error
	hotels  []model.Hotel
}

func (m *mockCatalogStore) ResolveDestination(ctx context.Context, name string) (*model.Destination, error) {
	return m.dest, m.destErr
}

func (m *mockCatalogStore) SearchActivities(ctx context.Context, destinationID int64, queryVec []float32, threshold float64, limit int) ([]model.ActivityMatch, error) {
	return nil, nil
}

func (m *mockCatalogStore) HotelsForDestination(ctx context.Context, destinationID int64) ([]model.Hotel, error) {
	return m.hotels, nil
}

func (m *mockCatalogStore) ListActivitiesMissingEmbedding(ctx context.Context) ([]catalog.BackfillRow, error) {
	return nil, nil
}

func (m *mockCatalogStore) UpdateActivityEmbedding(ctx context.Context, activityID int64, vec []float32) error {
	return nil
}

func (m *mockCatalogStore) HealthCheck(ctx context.Context) error { return nil }
func (m *mockCatalogStore) Close() error                          { return nil }

func TestSearchActivitiesHandler(t *testing.T) {
	lookup := &mockLookup{matches: []model.ActivityMatch{
		{ID: 1, Name: "Nusa Dua Snorkeling Tour", Similarity: 0.91},
	}}
	router := NewRouter(&mockAssistant{}, lookup, &mockCatalogStore{}, nil)

	body := bytes.NewBufferString(`{"activity":"snorkeling","destination":"Bali"}`)
	req := httptest.NewRequest("POST", "/api/activities/search", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Activities []model.ActivityMatch `json:"activities"`
		Count      int                   `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Activities[0].Name != "Nusa Dua Snorkeling Tour" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSearchActivitiesEmptyIsOK(t *testing.T) {
	router := NewRouter(&mockAssistant{}, &mockLookup{}, &mockCatalogStore{}, nil)

	body := bytes.NewBufferString(`{"activity":"ice climbing","destination":"Bali"}`)
	req := httptest.NewRequest("POST", "/api/activities/search", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("empty result must be 200, got %d", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Count != 0 {
		t.Fatalf("expected 0 matches, got %d", resp.Count)
	}
}

func TestSearchActivitiesAmbiguousDestination(t *testing.T) {
	router := NewRouter(&mockAssistant{}, &mockLookup{err: model.ErrAmbiguous}, &mockCatalogStore{}, nil)

	body := bytes.NewBufferString(`{"activity":"museum","destination":"Paris"}`)
	req := httptest.NewRequest("POST", "/api/activities/search", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 409 {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestHotelsForDestination(t *testing.T) {
	store := &mockCatalogStore{
		dest:   &model.Destination{ID: 7, Name: "Bali"},
		hotels: []model.Hotel{{ID: 1, Name: "Ashoka Tree Resort", Location: "Ubud", Star: 4, Rating: 4.5}},
	}
	router := NewRouter(&mockAssistant{}, &mockLookup{}, store, nil)

	req := httptest.NewRequest("GET", "/api/destinations/Bali/hotels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Hotels []model.Hotel `json:"hotels"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Hotels) != 1 || resp.Hotels[0].Name != "Ashoka Tree Resort" {
		t.Fatalf("unexpected hotels: %+v", resp.Hotels)
	}
}

func TestHotelsForUnknownDestination(t *testing.T) {
	store := &mockCatalogStore{destErr: model.ErrNotFound}
	router := NewRouter(&mockAssistant{}, &mockLookup{}, store, nil)

	req := httptest.NewRequest("GET", "/api/destinations/Atlantis/hotels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 404 {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
