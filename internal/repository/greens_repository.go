package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/greens-backend-go/internal/models"
)

// ErrNotFound is returned when no row matches
var ErrNotFound = errors.New("not found")

// GreensRepository handles database operations for athlete totals
type GreensRepository struct {
	db *sql.DB
}

// NewGreensRepository creates a new greens repository
func NewGreensRepository(db *sql.DB) *GreensRepository {
	return &GreensRepository{db: db}
}

// Upsert inserts the athlete's row or overwrites every field of the existing one
func (r *GreensRepository) Upsert(ctx context.Context, t models.AthleteTotal) error {
	query := `INSERT INTO greens (id, name, num, grid_count, lastupdate)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			num = excluded.num,
			grid_count = excluded.grid_count,
			lastupdate = excluded.lastupdate`

	_, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.Greens, t.GridCount, t.LastUpdate.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert athlete %d: %w", t.ID, err)
	}
	return nil
}

// GetByID retrieves a single athlete total
func (r *GreensRepository) GetByID(ctx context.Context, id int64) (*models.AthleteTotal, error) {
	query := `SELECT id, name, num, grid_count, lastupdate FROM greens WHERE id = ?`

	t, err := scanTotal(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get athlete %d: %w", id, err)
	}
	return t, nil
}

// List retrieves all athlete totals, most efforts first
func (r *GreensRepository) List(ctx context.Context) ([]models.AthleteTotal, error) {
	query := `SELECT id, name, num, grid_count, lastupdate FROM greens ORDER BY num DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query greens: %w", err)
	}
	defer rows.Close()

	var totals []models.AthleteTotal
	for rows.Next() {
		t, err := scanTotal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan greens row: %w", err)
		}
		totals = append(totals, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate greens: %w", err)
	}
	return totals, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// Rows written before grid tracking existed may hold NULLs
func scanTotal(s scanner) (*models.AthleteTotal, error) {
	var (
		t          models.AthleteTotal
		name       sql.NullString
		num        sql.NullInt64
		gridCount  sql.NullInt64
		lastUpdate sql.NullTime
	)
	if err := s.Scan(&t.ID, &name, &num, &gridCount, &lastUpdate); err != nil {
		return nil, err
	}

	t.Name = name.String
	t.Greens = int(num.Int64)
	t.GridCount = int(gridCount.Int64)
	if lastUpdate.Valid {
		t.LastUpdate = lastUpdate.Time.UTC()
	}
	return &t, nil
}
