// Package sqlite implements catalog.Store on SQLite for local development.
// Embeddings are stored as JSON text and scored in process, brute force.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/model"
)

type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the SQLite catalog at path and applies
// the schema, with the vector column downgraded to TEXT.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB constructs a store from an existing connection without applying
// the schema. Used by tests.
func NewWithDB(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db")
	}
	return &Store{db: db}, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS destinations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            code TEXT NOT NULL,
            description TEXT,
            region TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS hotels (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            location TEXT NOT NULL,
            star INTEGER NOT NULL DEFAULT 0,
            rating REAL NOT NULL DEFAULT 0,
            destination_id INTEGER NOT NULL REFERENCES destinations(id)
        )`,
		`CREATE TABLE IF NOT EXISTS activities (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            code TEXT NOT NULL,
            description TEXT,
            destination_id INTEGER NOT NULL REFERENCES destinations(id),
            embedding TEXT
        )`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	row := s.db.QueryRowContext(ctx, "SELECT 1")
	var one int
	return row.Scan(&one)
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ResolveDestination(ctx context.Context, name string) (*model.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, code, description, region
        FROM destinations WHERE LOWER(name) = LOWER(?)
    `, name)
	if err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	defer func() { _ = rows.Close() }()

	var found []*model.Destination
	for rows.Next() {
		var d model.Destination
		var desc, region sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &desc, &region); err != nil {
			return nil, errors.Wrap(model.ErrExternal, err.Error())
		}
		d.Description = desc.String
		d.Region = region.String
		found = append(found, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}

	switch len(found) {
	case 0:
		return nil, errors.Wrapf(model.ErrNotFound, "destination %q", name)
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(model.ErrAmbiguous, "destination %q matches %d rows", name, len(found))
	}
}

// SearchActivities loads the destination's embedded activities and scores
// them in Go with an inner product, mirroring the pgvector ordering.
func (s *Store) SearchActivities(ctx context.Context, destinationID int64, queryVec []float32, threshold float64, limit int) ([]model.ActivityMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, description, embedding
        FROM activities
        WHERE destination_id = ? AND embedding IS NOT NULL
    `, destinationID)
	if err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	defer func() { _ = rows.Close() }()

	q := toFloat64(queryVec)
	var out []model.ActivityMatch
	for rows.Next() {
		var m model.ActivityMatch
		var desc sql.NullString
		var embJSON string
		if err := rows.Scan(&m.ID, &m.Name, &desc, &embJSON); err != nil {
			return nil, errors.Wrap(model.ErrExternal, err.Error())
		}
		var emb []float64
		if err := json.Unmarshal([]byte(embJSON), &emb); err != nil {
			return nil, errors.Wrapf(model.ErrExternal, "activity %d embedding: %v", m.ID, err)
		}
		if len(emb) != len(q) {
			continue // embedded with a different model, skip
		}
		m.Description = desc.String
		m.Similarity = floats.Dot(q, emb)
		if m.Similarity > threshold {
			out = append(out, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) HotelsForDestination(ctx context.Context, destinationID int64) ([]model.Hotel, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, location, star, rating, destination_id
        FROM hotels WHERE destination_id = ? ORDER BY rating DESC
    `, destinationID)
	if err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	defer func() { _ = rows.Close() }()

	var out []model.Hotel
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Location, &h.Star, &h.Rating, &h.DestinationID); err != nil {
			return nil, errors.Wrap(model.ErrExternal, err.Error())
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	return out, nil
}

func (s *Store) ListActivitiesMissingEmbedding(ctx context.Context) ([]catalog.BackfillRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT a.id, a.name, a.code, a.description, a.destination_id, d.name
        FROM activities a
        JOIN destinations d ON a.destination_id = d.id
        WHERE a.embedding IS NULL
        ORDER BY a.id
    `)
	if err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.BackfillRow
	for rows.Next() {
		var r catalog.BackfillRow
		var desc sql.NullString
		if err := rows.Scan(&r.Activity.ID, &r.Activity.Name, &r.Activity.Code, &desc, &r.Activity.DestinationID, &r.DestinationName); err != nil {
			return nil, errors.Wrap(model.ErrExternal, err.Error())
		}
		r.Activity.Description = desc.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	return out, nil
}

func (s *Store) UpdateActivityEmbedding(ctx context.Context, activityID int64, vec []float32) error {
	data, err := json.Marshal(toFloat64(vec))
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE activities SET embedding = ? WHERE id = ?`, string(data), activityID)
	if err != nil {
		return errors.Wrap(model.ErrExternal, err.Error())
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(model.ErrNotFound, "activity %d", activityID)
	}
	return nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

var _ catalog.Store = (*Store)(nil)
