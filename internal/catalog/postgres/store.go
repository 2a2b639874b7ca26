// Package postgres implements catalog.Store on PostgreSQL with pgvector.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/tripweaver/assistant/internal/catalog"
	"github.com/tripweaver/assistant/internal/model"
)

// Store implements catalog.Store using PostgreSQL via database/sql (pgx driver).
type Store struct {
	db *sql.DB
}

// Open returns a *sql.DB using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a catalog store from an existing DB connection.
func NewWithDB(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db")
	}
	return &Store{db: db}, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	row := s.db.QueryRowContext(ctx, "SELECT 1")
	var one int
	return row.Scan(&one)
}

func (s *Store) Close() error { return s.db.Close() }

// ResolveDestination matches case-insensitively. Zero rows yields
// model.ErrNotFound; more than one yields model.ErrAmbiguous so the caller
// can ask for clarification instead of silently picking a row.
func (s *Store) ResolveDestination(ctx context.Context, name string) (*model.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, code, description, region
        FROM destinations WHERE LOWER(name) = LOWER($1)
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

// SearchActivities scores by negative inner-product distance in SQL. The
// threshold comparison is strict.
func (s *Store) SearchActivities(ctx context.Context, destinationID int64, queryVec []float32, threshold float64, limit int) ([]model.ActivityMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, description, -(embedding <#> $1) AS similarity
        FROM activities
        WHERE destination_id = $2
          AND embedding IS NOT NULL
          AND -(embedding <#> $1) > $3
        ORDER BY similarity DESC
        LIMIT $4
    `, pgvector.NewVector(queryVec), destinationID, threshold, limit)
	if err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	defer func() { _ = rows.Close() }()

	var out []model.ActivityMatch
	for rows.Next() {
		var m model.ActivityMatch
		var desc sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &desc, &m.Similarity); err != nil {
			return nil, errors.Wrap(model.ErrExternal, err.Error())
		}
		m.Description = desc.String
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(model.ErrExternal, err.Error())
	}
	return out, nil
}

func (s *Store) HotelsForDestination(ctx context.Context, destinationID int64) ([]model.Hotel, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, location, star, rating, destination_id
        FROM hotels WHERE destination_id = $1 ORDER BY rating DESC
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
	res, err := s.db.ExecContext(ctx,
		`UPDATE activities SET embedding = $1 WHERE id = $2`,
		pgvector.NewVector(vec), activityID)
	if err != nil {
		return errors.Wrap(model.ErrExternal, err.Error())
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(model.ErrNotFound, "activity %d", activityID)
	}
	return nil
}

var _ catalog.Store = (*Store)(nil)
