package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
)

// SnapshotRepository implements repository.SnapshotRepository with SQLite.
// Save replaces every row inside one transaction, so a failed save leaves
// the previous snapshot intact.
type SnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

// Open opens (or creates) the database at dsn and applies the schema
func Open(ctx context.Context, dsn string) (*SnapshotRepository, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := NewMigrator(db).Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return NewSnapshotRepository(db), nil
}

// NewSnapshotRepository wraps an already migrated database
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

// Close closes the database
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

// Save implements repository.SnapshotRepository
func (r *SnapshotRepository) Save(ctx context.Context, s *repository.Snapshot) error {
	if err := r.save(ctx, s); err != nil {
		return repository.NewSaveError(err)
	}
	return nil
}

func (r *SnapshotRepository) save(ctx context.Context, s *repository.Snapshot) error {
	if s == nil {
		s = &repository.Snapshot{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"subtasks", "epics", "tasks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s failed: %w", table, err)
		}
	}

	for _, t := range s.Tasks {
		start, duration := windowColumns(t.Window())
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, name, description, status, start_time, duration_ns)
			VALUES (?, ?, ?, ?, ?, ?)`,
			int(t.ID()), t.Name(), t.Description(), t.Status().String(), start, duration,
		); err != nil {
			return fmt.Errorf("insert task %d failed: %w", t.ID(), err)
		}
	}

	for _, e := range s.Epics {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO epics (id, name, description, status)
			VALUES (?, ?, ?, ?)`,
			int(e.ID()), e.Name(), e.Description(), e.Status().String(),
		); err != nil {
			return fmt.Errorf("insert epic %d failed: %w", e.ID(), err)
		}
	}

	for _, st := range s.Subtasks {
		start, duration := windowColumns(st.Window())
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subtasks (id, epic_id, name, description, status, start_time, duration_ns)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			int(st.ID()), int(st.EpicID()), st.Name(), st.Description(), st.Status().String(), start, duration,
		); err != nil {
			return fmt.Errorf("insert subtask %d failed: %w", st.ID(), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, saved_at, entity_count) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, entity_count = excluded.entity_count`,
		r.now().UTC().Format(time.RFC3339Nano), s.Len(),
	); err != nil {
		return fmt.Errorf("update snapshot meta failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction failed: %w", err)
	}
	return nil
}

// Load implements repository.SnapshotRepository.
// Returns repository.ErrSnapshotNotFound until the first save.
func (r *SnapshotRepository) Load(ctx context.Context) (*repository.Snapshot, error) {
	var savedAt string
	err := r.db.QueryRowContext(ctx, "SELECT saved_at FROM snapshot_meta WHERE id = 1").Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, repository.NewLoadError(err)
	}

	snap, err := r.load(ctx)
	if err != nil {
		return nil, repository.NewLoadError(err)
	}
	return snap, nil
}

func (r *SnapshotRepository) load(ctx context.Context) (*repository.Snapshot, error) {
	snap := &repository.Snapshot{}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, status, start_time, duration_ns FROM tasks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query tasks failed: %w", err)
	}
	for rows.Next() {
		var (
			id       int
			name     string
			desc     string
			status   string
			start    sql.NullString
			duration int64
		)
		if err := rows.Scan(&id, &name, &desc, &status, &start, &duration); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan task failed: %w", err)
		}
		window, err := parseWindow(start, duration)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("task %d: %w", id, err)
		}
		snap.Tasks = append(snap.Tasks, task.ReconstructTask(model.TaskID(id), name, desc, model.Status(status), window))
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, "SELECT id, name, description, status FROM epics ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query epics failed: %w", err)
	}
	for rows.Next() {
		var (
			id     int
			name   string
			desc   string
			status string
		)
		if err := rows.Scan(&id, &name, &desc, &status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan epic failed: %w", err)
		}
		snap.Epics = append(snap.Epics, epic.ReconstructEpic(model.TaskID(id), name, desc, model.Status(status), nil))
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx,
		"SELECT id, epic_id, name, description, status, start_time, duration_ns FROM subtasks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query subtasks failed: %w", err)
	}
	for rows.Next() {
		var (
			id       int
			epicID   int
			name     string
			desc     string
			status   string
			start    sql.NullString
			duration int64
		)
		if err := rows.Scan(&id, &epicID, &name, &desc, &status, &start, &duration); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan subtask failed: %w", err)
		}
		window, err := parseWindow(start, duration)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("subtask %d: %w", id, err)
		}
		snap.Subtasks = append(snap.Subtasks, subtask.ReconstructSubtask(
			model.TaskID(id), model.TaskID(epicID), name, desc, model.Status(status), window))
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return snap, nil
}

// SavedAt returns the time of the last save and whether one happened
func (r *SnapshotRepository) SavedAt(ctx context.Context) (time.Time, bool, error) {
	var savedAt string
	err := r.db.QueryRowContext(ctx, "SELECT saved_at FROM snapshot_meta WHERE id = 1").Scan(&savedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse saved_at: %w", err)
	}
	return t, true, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate rows failed: %w", err)
	}
	return rows.Close()
}

func windowColumns(w model.TimeWindow) (sql.NullString, int64) {
	if !w.HasStart() {
		return sql.NullString{}, int64(w.Duration())
	}
	return sql.NullString{String: w.Start().Format(time.RFC3339Nano), Valid: true}, int64(w.Duration())
}

func parseWindow(start sql.NullString, duration int64) (model.TimeWindow, error) {
	d := time.Duration(duration)
	if !start.Valid || start.String == "" {
		return model.UnscheduledWindow(d), nil
	}
	t, err := time.Parse(time.RFC3339Nano, start.String)
	if err != nil {
		return model.TimeWindow{}, fmt.Errorf("parse start_time: %w", err)
	}
	return model.NewTimeWindow(t, d), nil
}
