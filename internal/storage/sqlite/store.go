// Package sqlite provides a SQLite-backed obstacle library.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/obstacle-studio/internal/compiler"
	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	sqlitemigrate "github.com/louisbranch/obstacle-studio/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/obstacle-studio/internal/project"
	"github.com/louisbranch/obstacle-studio/internal/storage"
	"github.com/louisbranch/obstacle-studio/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists projects in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.ProjectStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite library and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutProject creates or replaces the project stored under id. Child rows
// are rewritten in one transaction.
func (s *Store) PutProject(ctx context.Context, id string, p *project.Project) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("project id is required")
	}
	if p == nil || p.Obstacle == nil {
		return fmt.Errorf("project is required")
	}
	options, err := json.Marshal(p.Options)
	if err != nil {
		return fmt.Errorf("encode trigger options: %w", err)
	}
	now := toMillis(s.now())

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put project: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	useFrames := 0
	if p.Obstacle.Timing() == obstacle.Frames {
		useFrames = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO projects (
		   id,
		   name,
		   number,
		   use_frames,
		   location_prefix,
		   location_convention,
		   location_id_offset,
		   trigger_options,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   number = excluded.number,
		   use_frames = excluded.use_frames,
		   location_prefix = excluded.location_prefix,
		   location_convention = excluded.location_convention,
		   location_id_offset = excluded.location_id_offset,
		   trigger_options = excluded.trigger_options,
		   updated_at = excluded.updated_at`,
		id,
		p.Name,
		p.Number,
		useFrames,
		p.Naming.Prefix,
		int(p.Naming.Convention),
		p.Naming.IDOffset,
		string(options),
		now,
		now,
	); err != nil {
		return fmt.Errorf("put project: %w", err)
	}

	for _, table := range childTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE project_id = ?", id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertChildren(ctx, tx, id, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put project: %w", err)
	}
	return nil
}

var childTables = []string{
	"project_locations",
	"project_delays",
	"project_explosions",
	"project_walls",
	"project_teleports",
	"project_audio",
}

func insertChildren(ctx context.Context, tx *sql.Tx, id string, p *project.Project) error {
	for i, r := range p.Rects {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_locations (project_id, num, x, y, width, height) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i+1, r.X, r.Y, r.Width, r.Height,
		); err != nil {
			return fmt.Errorf("insert location %d: %w", i+1, err)
		}
	}
	for i, delay := range p.Obstacle.Delays() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_delays (project_id, count, delay) VALUES (?, ?, ?)`,
			id, i+1, delay,
		); err != nil {
			return fmt.Errorf("insert delay %d: %w", i+1, err)
		}
	}
	for i, e := range p.Obstacle.Explosions() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_explosions (project_id, idx, count, player, kind, location, x, y) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, e.Count, e.Player, e.Kind, e.Location, e.Pos.X, e.Pos.Y,
		); err != nil {
			return fmt.Errorf("insert explosion %d: %w", i, err)
		}
	}
	for i, w := range p.Obstacle.Walls() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_walls (project_id, idx, count, player, unit, op, location, x, y) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, w.Count, w.Player, w.Unit, int(w.Op), w.Location, w.Pos.X, w.Pos.Y,
		); err != nil {
			return fmt.Errorf("insert wall %d: %w", i, err)
		}
	}
	for i, t := range p.Obstacle.Teleports() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_teleports (project_id, idx, count, player_from, player_to, image_from, image_to, location_from, location_to) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, t.Count, t.PlayerFrom, t.PlayerTo, t.ImageFrom, t.ImageTo, t.LocationFrom, t.LocationTo,
		); err != nil {
			return fmt.Errorf("insert teleport %d: %w", i, err)
		}
	}
	for i, a := range p.Obstacle.Audio() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_audio (project_id, idx, count, kind, dc_unit) VALUES (?, ?, ?, ?, ?)`,
			id, i, a.Count, a.Kind, a.DCUnit,
		); err != nil {
			return fmt.Errorf("insert audio %d: %w", i, err)
		}
	}
	return nil
}

// GetProject loads the project stored under id.
func (s *Store) GetProject(ctx context.Context, id string) (*project.Project, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("project id is required")
	}

	var (
		p          project.Project
		useFrames  bool
		convention int
		options    string
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT name, number, use_frames, location_prefix, location_convention, location_id_offset, trigger_options
		 FROM projects WHERE id = ?`,
		id,
	).Scan(&p.Name, &p.Number, &useFrames, &p.Naming.Prefix, &convention, &p.Naming.IDOffset, &options)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	p.Naming.Convention = location.Convention(convention)
	p.Options = compiler.DefaultOptions()
	if err := json.Unmarshal([]byte(options), &p.Options); err != nil {
		return nil, fmt.Errorf("decode trigger options: %w", err)
	}

	if p.Rects, err = s.locations(ctx, id); err != nil {
		return nil, err
	}
	rec := obstacle.Record{UseFrames: useFrames}
	if rec.Delays, err = s.delays(ctx, id); err != nil {
		return nil, err
	}
	if rec.Explosions, err = s.rows(ctx, "project_explosions", "count, player, kind, location, x, y", 6, id); err != nil {
		return nil, err
	}
	if rec.Walls, err = s.rows(ctx, "project_walls", "count, player, unit, op, location, x, y", 7, id); err != nil {
		return nil, err
	}
	if rec.Teleports, err = s.rows(ctx, "project_teleports", "count, player_from, player_to, image_from, image_to, location_from, location_to", 7, id); err != nil {
		return nil, err
	}
	if rec.Audio, err = s.rows(ctx, "project_audio", "count, kind, dc_unit", 3, id); err != nil {
		return nil, err
	}

	timing := obstacle.Waits
	if useFrames {
		timing = obstacle.Frames
	}
	p.Obstacle = obstacle.New(timing)
	if err := p.Obstacle.Load(rec); err != nil {
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}
	if err := p.Obstacle.Check(len(p.Rects)); err != nil {
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) locations(ctx context.Context, id string) ([]location.Rect, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT x, y, width, height FROM project_locations WHERE project_id = ? ORDER BY num`, id)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var rects []location.Rect
	for rows.Next() {
		var r location.Rect
		if err := rows.Scan(&r.X, &r.Y, &r.Width, &r.Height); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		rects = append(rects, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return rects, nil
}

func (s *Store) delays(ctx context.Context, id string) ([]int, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT delay FROM project_delays WHERE project_id = ? ORDER BY count`, id)
	if err != nil {
		return nil, fmt.Errorf("query delays: %w", err)
	}
	defer rows.Close()

	var delays []int
	for rows.Next() {
		var delay int
		if err := rows.Scan(&delay); err != nil {
			return nil, fmt.Errorf("scan delay: %w", err)
		}
		delays = append(delays, delay)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delays: %w", err)
	}
	return delays, nil
}

// rows reads one event relation into record rows keyed by index.
func (s *Store) rows(ctx context.Context, table, columns string, width int, id string) (map[string]obstacle.Row, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT idx, "+columns+" FROM "+table+" WHERE project_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[string]obstacle.Row)
	for rows.Next() {
		var idx int
		row := make(obstacle.Row, width)
		dest := make([]any, 0, width+1)
		dest = append(dest, &idx)
		for i := range row {
			dest = append(dest, &row[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[strconv.Itoa(idx)] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

// ListProjects returns summaries, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]storage.ProjectSummary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT
		   p.id,
		   p.name,
		   p.number,
		   (SELECT COUNT(*) FROM project_delays d WHERE d.project_id = p.id),
		   (SELECT COUNT(*) FROM project_locations l WHERE l.project_id = p.id),
		   p.created_at,
		   p.updated_at
		 FROM projects p
		 ORDER BY p.updated_at DESC, p.id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []storage.ProjectSummary
	for rows.Next() {
		var (
			summary            storage.ProjectSummary
			createdAt, updated int64
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Number, &summary.Counts, &summary.Locations, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("scan project summary: %w", err)
		}
		summary.CreatedAt = fromMillis(createdAt)
		summary.UpdatedAt = fromMillis(updated)
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project summaries: %w", err)
	}
	return out, nil
}

// DeleteProject removes the project stored under id and its rows.
func (s *Store) DeleteProject(ctx context.Context, id string) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("project id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range childTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE project_id = ?", id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project rows affected: %w", err)
	}
	if n == 0 {
		return storage.NotFound(id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete project: %w", err)
	}
	return nil
}
