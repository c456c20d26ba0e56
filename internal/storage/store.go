// Package storage keeps headless run results in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/parched/internal/metrics"
)

var ErrRunNotFound = errors.New("storage: run not found")

type RunMetadata struct {
	ID          string             `json:"id" db:"id"`
	Scene       string             `json:"scene" db:"scene"`
	Preset      string             `json:"preset,omitempty" db:"preset"`
	CreatedAt   int64              `json:"-" db:"created_at"`
	Timestamp   time.Time          `json:"timestamp" db:"-"`
	Seed        int64              `json:"seed" db:"seed"`
	Dt          float64            `json:"dt" db:"dt"`
	Frames      int                `json:"frames" db:"frames"`
	SubSteps    int                `json:"sub_steps" db:"sub_steps"`
	Balls       int                `json:"balls" db:"balls"`
	MetricsJSON string             `json:"-" db:"metrics_json"`
	Metrics     map[string]float64 `json:"metrics" db:"-"`
}

type sampleRow struct {
	Frame      int     `db:"frame"`
	Time       float64 `db:"time"`
	Balls      int     `db:"balls"`
	ValuesJSON string  `db:"values_json"`
}

// Store wraps a SQLite connection for run storage.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the run and its samples in one transaction and returns the new run id.
func (s *Store) Save(ctx context.Context, meta RunMetadata, samples []metrics.Sample) (string, error) {
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.CreatedAt = meta.Timestamp.UnixNano()

	m, err := json.Marshal(meta.Metrics)
	if err != nil {
		return "", err
	}
	meta.MetricsJSON = string(m)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, scene, preset, created_at, seed, dt, frames, sub_steps, balls, metrics_json)
		VALUES (:id, :scene, :preset, :created_at, :seed, :dt, :frames, :sub_steps, :balls, :metrics_json)`,
		&meta); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO samples (run_id, frame, time, balls, values_json) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, smp := range samples {
		v, err := json.Marshal(smp.Values)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, meta.ID, smp.Frame, smp.Time, smp.Balls, string(v)); err != nil {
			return "", fmt.Errorf("insert sample %d: %w", smp.Frame, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (m *RunMetadata) decode() error {
	m.Timestamp = time.Unix(0, m.CreatedAt)
	m.Metrics = map[string]float64{}
	if m.MetricsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(m.MetricsJSON), &m.Metrics)
}

// List returns every run, newest first.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	var runs []RunMetadata
	if err := s.db.SelectContext(ctx, &runs, `
		SELECT id, scene, preset, created_at, seed, dt, frames, sub_steps, balls, metrics_json
		FROM runs ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	for i := range runs {
		if err := runs[i].decode(); err != nil {
			return nil, fmt.Errorf("run %s: %w", runs[i].ID, err)
		}
	}
	return runs, nil
}

func (s *Store) Load(ctx context.Context, runID string) (*RunMetadata, error) {
	var meta RunMetadata
	err := s.db.GetContext(ctx, &meta, `
		SELECT id, scene, preset, created_at, seed, dt, frames, sub_steps, balls, metrics_json
		FROM runs WHERE id = ?`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	if err := meta.decode(); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(ctx context.Context, runID string) ([]metrics.Sample, error) {
	if _, err := s.Load(ctx, runID); err != nil {
		return nil, err
	}

	var rows []sampleRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT frame, time, balls, values_json FROM samples
		WHERE run_id = ? ORDER BY frame`, runID); err != nil {
		return nil, err
	}

	out := make([]metrics.Sample, len(rows))
	for i, r := range rows {
		out[i] = metrics.Sample{Frame: r.Frame, Time: r.Time, Balls: r.Balls}
		if err := json.Unmarshal([]byte(r.ValuesJSON), &out[i].Values); err != nil {
			return nil, fmt.Errorf("sample %d: %w", r.Frame, err)
		}
	}
	return out, nil
}

// Delete removes a run and its samples.
func (s *Store) Delete(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
