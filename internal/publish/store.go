package publish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"easel/internal/config"
)

// Store manages the publish registry backed by SQLite.
type Store struct {
	db   *sql.DB
	path string

	// lock serializes version allocation across processes. The CLI and a
	// running engine may register publishes concurrently.
	lock *flock.Flock
}

// Open initializes or connects to the registry database in the state
// directory and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "registry.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(filepath.Join(cfg.Paths.StateDir, "registry.lock")),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the registry database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Register inserts a publish record. When rec.Version is zero the next free
// version for the record's context, name, and type is allocated. The stored
// record, with ID, code, version, and timestamp filled in, is returned.
func (s *Store) Register(ctx context.Context, rec *Record) (*Record, error) {
	if rec == nil {
		return nil, errors.New("record is nil")
	}
	if rec.Name == "" || rec.Type == "" || rec.Path == "" {
		return nil, errors.New("publish record requires name, type, and path")
	}
	if rec.Project == "" || rec.Entity == "" || rec.Task == "" {
		return nil, errors.New("publish record requires a full context")
	}

	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire registry lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin register tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	version := rec.Version
	if version <= 0 {
		latest, err := latestVersionTx(ctx, tx, rec.Project, rec.Entity, rec.Task, rec.Name, rec.Type)
		if err != nil {
			return nil, err
		}
		version = latest + 1
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO publishes (
            code, name, type, path, version, comment,
            project, entity, task, thumbnail_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		rec.Name,
		rec.Type,
		rec.Path,
		version,
		nullableString(rec.Comment),
		rec.Project,
		rec.Entity,
		rec.Task,
		nullableString(rec.ThumbnailPath),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert publish: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, dep := range rec.DependencyIDs {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO publish_dependencies (publish_id, depends_on_id) VALUES (?, ?)`,
			id, dep,
		); err != nil {
			return nil, fmt.Errorf("insert dependency %d -> %d: %w", id, dep, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit register: %w", err)
	}

	return s.GetByID(ctx, id)
}

// LatestVersion returns the highest registered version for a publish name
// and type within a context, or zero when none exists.
func (s *Store) LatestVersion(ctx context.Context, project, entity, task, name, publishType string) (int, error) {
	return latestVersionTx(ctx, s.db, project, entity, task, name, publishType)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func latestVersionTx(ctx context.Context, q querier, project, entity, task, name, publishType string) (int, error) {
	var latest int
	err := q.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(version), 0) FROM publishes
         WHERE project = ? AND entity = ? AND task = ? AND name = ? AND type = ?`,
		project, entity, task, name, publishType,
	).Scan(&latest)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	return latest, nil
}

// GetByID fetches a publish record by identifier. Missing records return
// nil without error.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM publishes WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get publish: %w", err)
	}
	if err := s.loadDependencies(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByName returns all versions of a publish name and type within a
// context, oldest version first.
func (s *Store) ListByName(ctx context.Context, project, entity, task, name, publishType string) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM publishes
         WHERE project = ? AND entity = ? AND task = ? AND name = ? AND type = ?
         ORDER BY version`,
		project, entity, task, name, publishType,
	)
	if err != nil {
		return nil, fmt.Errorf("query by name: %w", err)
	}
	return s.collect(ctx, rows)
}

// List returns publishes filtered by context. Empty filter values match
// everything, so List(ctx, "", "", "") returns the whole registry.
func (s *Store) List(ctx context.Context, project, entity, task string) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM publishes`
	var (
		conds []string
		args  []any
	)
	if project != "" {
		conds = append(conds, "project = ?")
		args = append(args, project)
	}
	if entity != "" {
		conds = append(conds, "entity = ?")
		args = append(args, entity)
	}
	if task != "" {
		conds = append(conds, "task = ?")
		args = append(args, task)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query publishes: %w", err)
	}
	return s.collect(ctx, rows)
}

// Remove deletes a publish record and its dependency links. It reports
// whether a record was deleted.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM publishes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete publish: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) collect(ctx context.Context, rows *sql.Rows) ([]*Record, error) {
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan publish: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate publishes: %w", err)
	}

	for _, rec := range records {
		if err := s.loadDependencies(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) loadDependencies(ctx context.Context, rec *Record) error {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT depends_on_id FROM publish_dependencies WHERE publish_id = ? ORDER BY depends_on_id`,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("query dependencies: %w", err)
	}
	defer rows.Close()

	rec.DependencyIDs = nil
	for rows.Next() {
		var dep int64
		if err := rows.Scan(&dep); err != nil {
			return fmt.Errorf("scan dependency: %w", err)
		}
		rec.DependencyIDs = append(rec.DependencyIDs, dep)
	}
	return rows.Err()
}

const recordColumns = "id, code, name, type, path, version, comment, project, entity, task, thumbnail_path, created_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id         int64
		code       string
		name       string
		typeStr    string
		path       string
		version    int
		comment    sql.NullString
		project    string
		entity     string
		task       string
		thumbnail  sql.NullString
		createdRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&code,
		&name,
		&typeStr,
		&path,
		&version,
		&comment,
		&project,
		&entity,
		&task,
		&thumbnail,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:            id,
		Code:          code,
		Name:          name,
		Type:          typeStr,
		Path:          path,
		Version:       version,
		Comment:       comment.String,
		Project:       project,
		Entity:        entity,
		Task:          task,
		ThumbnailPath: thumbnail.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
