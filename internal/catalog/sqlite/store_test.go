package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/tripweaver/assistant/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedDestination(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO destinations (name, code, description, region) VALUES (?, ?, NULL, NULL)`,
		name, name[:3])
	if err != nil {
		t.Fatalf("seed destination: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedActivity(t *testing.T, s *Store, destID int64, name, embedding string) int64 {
	t.Helper()
	var res sql.Result
	var err error
	if embedding == "" {
		res, err = s.db.Exec(
			`INSERT INTO activities (name, code, destination_id, embedding) VALUES (?, ?, ?, NULL)`,
			name, "ACT", destID)
	} else {
		res, err = s.db.Exec(
			`INSERT INTO activities (name, code, destination_id, embedding) VALUES (?, ?, ?, ?)`,
			name, "ACT", destID, embedding)
	}
	if err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func TestResolveDestinationCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	seedDestination(t, s, "Bali")

	d, err := s.ResolveDestination(context.Background(), "bAlI")
	if err != nil {
		t.Fatalf("ResolveDestination: %v", err)
	}
	if d.Name != "Bali" {
		t.Fatalf("unexpected destination: %+v", d)
	}

	if _, err := s.ResolveDestination(context.Background(), "Atlantis"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveDestinationAmbiguous(t *testing.T) {
	s := newTestStore(t)
	seedDestination(t, s, "Springfield")
	seedDestination(t, s, "Springfield")

	_, err := s.ResolveDestination(context.Background(), "springfield")
	if !errors.Is(err, model.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
}

// With query vector [1, 0] the inner product equals the activity vector's
// first component, which makes the scores exact and the boundary testable.
func TestSearchActivitiesThresholdIsStrict(t *testing.T) {
	s := newTestStore(t)
	dest := seedDestination(t, s, "Bali")
	seedActivity(t, s, dest, "At threshold", "[0.85, 0]")
	seedActivity(t, s, dest, "Just above", "[0.851, 0]")
	seedActivity(t, s, dest, "Well below", "[0.2, 0]")

	got, err := s.SearchActivities(context.Background(), dest, []float32{1, 0}, 0.85, 5)
	if err != nil {
		t.Fatalf("SearchActivities: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 match, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Just above" {
		t.Fatalf("a score equal to the threshold must be excluded, got %+v", got[0])
	}
}

func TestSearchActivitiesCapsAndOrders(t *testing.T) {
	s := newTestStore(t)
	dest := seedDestination(t, s, "Bali")
	for i := 0; i < 8; i++ {
		emb := fmt.Sprintf("[0.9%d, 0]", i)
		seedActivity(t, s, dest, fmt.Sprintf("activity-%d", i), emb)
	}

	got, err := s.SearchActivities(context.Background(), dest, []float32{1, 0}, 0.85, 5)
	if err != nil {
		t.Fatalf("SearchActivities: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected cap of 5, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Fatalf("results not in descending order: %+v", got)
		}
	}
	if got[0].Name != "activity-7" {
		t.Fatalf("highest score must come first, got %+v", got[0])
	}
}

func TestSearchActivitiesSkipsMismatchedDimensions(t *testing.T) {
	s := newTestStore(t)
	dest := seedDestination(t, s, "Bali")
	seedActivity(t, s, dest, "old model", "[0.99, 0, 0]")
	seedActivity(t, s, dest, "current model", "[0.9, 0]")

	got, err := s.SearchActivities(context.Background(), dest, []float32{1, 0}, 0.85, 5)
	if err != nil {
		t.Fatalf("SearchActivities: %v", err)
	}
	if len(got) != 1 || got[0].Name != "current model" {
		t.Fatalf("mismatched vector must be skipped, got %+v", got)
	}
}

func TestSearchActivitiesIgnoresOtherDestinations(t *testing.T) {
	s := newTestStore(t)
	bali := seedDestination(t, s, "Bali")
	lombok := seedDestination(t, s, "Lombok")
	seedActivity(t, s, bali, "Bali reef dive", "[0.95, 0]")
	seedActivity(t, s, lombok, "Lombok reef dive", "[0.99, 0]")

	got, err := s.SearchActivities(context.Background(), bali, []float32{1, 0}, 0.85, 5)
	if err != nil {
		t.Fatalf("SearchActivities: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Bali reef dive" {
		t.Fatalf("expected only Bali rows, got %+v", got)
	}
}

func TestBackfillRoundTrip(t *testing.T) {
	s := newTestStore(t)
	dest := seedDestination(t, s, "Bali")
	id := seedActivity(t, s, dest, "Uluwatu Temple Tour", "")
	seedActivity(t, s, dest, "already embedded", "[0.5, 0.5]")

	pending, err := s.ListActivitiesMissingEmbedding(context.Background())
	if err != nil {
		t.Fatalf("ListActivitiesMissingEmbedding: %v", err)
	}
	if len(pending) != 1 || pending[0].Activity.ID != id || pending[0].DestinationName != "Bali" {
		t.Fatalf("unexpected pending rows: %+v", pending)
	}

	if err := s.UpdateActivityEmbedding(context.Background(), id, []float32{0.9, 0.1}); err != nil {
		t.Fatalf("UpdateActivityEmbedding: %v", err)
	}
	pending, err = s.ListActivitiesMissingEmbedding(context.Background())
	if err != nil {
		t.Fatalf("ListActivitiesMissingEmbedding: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after backfill, got %+v", pending)
	}

	got, err := s.SearchActivities(context.Background(), dest, []float32{1, 0}, 0.85, 5)
	if err != nil {
		t.Fatalf("SearchActivities: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("backfilled activity should now match, got %+v", got)
	}
}

func TestUpdateActivityEmbeddingMissingRow(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateActivityEmbedding(context.Background(), 404, []float32{0.1})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHotelsOrderedByRating(t *testing.T) {
	s := newTestStore(t)
	dest := seedDestination(t, s, "Bali")
	if _, err := s.db.Exec(
		`INSERT INTO hotels (name, location, star, rating, destination_id) VALUES
         ('Grand Mirage', 'Nusa Dua', 5, 4.3, ?),
         ('Ashoka Tree Resort', 'Ubud', 4, 4.5, ?)`, dest, dest); err != nil {
		t.Fatalf("seed hotels: %v", err)
	}

	got, err := s.HotelsForDestination(context.Background(), dest)
	if err != nil {
		t.Fatalf("HotelsForDestination: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Ashoka Tree Resort" {
		t.Fatalf("expected rating-descending order, got %+v", got)
	}
}
