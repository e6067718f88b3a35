package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/obstacle-studio/internal/compiler"
	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/project"
	"github.com/louisbranch/obstacle-studio/internal/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPutGetProjectRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	src := sampleProject(t)
	if err := store.PutProject(ctx, "spiral", src); err != nil {
		t.Fatalf("put project: %v", err)
	}

	got, err := store.GetProject(ctx, "spiral")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.Name != src.Name || got.Number != src.Number || got.Naming != src.Naming {
		t.Fatalf("header = %+v, want %+v", got, src)
	}
	if !reflect.DeepEqual(got.Rects, src.Rects) {
		t.Fatalf("rects = %+v, want %+v", got.Rects, src.Rects)
	}
	if got.Options != src.Options {
		t.Fatalf("options = %+v, want %+v", got.Options, src.Options)
	}
	if !reflect.DeepEqual(got.Obstacle.Serialize(), src.Obstacle.Serialize()) {
		t.Fatalf("obstacle = %+v, want %+v", got.Obstacle.Serialize(), src.Obstacle.Serialize())
	}
}

func TestPutProjectReplacesRows(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	p := sampleProject(t)
	if err := store.PutProject(ctx, "spiral", p); err != nil {
		t.Fatalf("put project: %v", err)
	}

	if err := p.DeleteLocation(3); err != nil {
		t.Fatalf("delete location: %v", err)
	}
	if err := p.Obstacle.DeleteCount(2); err != nil {
		t.Fatalf("delete count: %v", err)
	}
	p.Options.DeathType = compiler.RemoveUnit
	if err := store.PutProject(ctx, "spiral", p); err != nil {
		t.Fatalf("replace project: %v", err)
	}

	got, err := store.GetProject(ctx, "spiral")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if len(got.Rects) != 2 {
		t.Fatalf("locations = %d, want 2", len(got.Rects))
	}
	if got.Obstacle.NumCounts() != 1 {
		t.Fatalf("counts = %d, want 1", got.Obstacle.NumCounts())
	}
	if got.Options.DeathType != compiler.RemoveUnit {
		t.Fatalf("death type = %q, want %q", got.Options.DeathType, compiler.RemoveUnit)
	}
	if !reflect.DeepEqual(got.Obstacle.Serialize(), p.Obstacle.Serialize()) {
		t.Fatal("obstacle rows were not replaced")
	}
}

func TestGetProjectNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetProject(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing = %v, want ErrNotFound", err)
	}
	if code := apperrors.GetCode(err); code != apperrors.CodeNotFound {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeNotFound)
	}
}

func TestListProjectsNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first := sampleProject(t)
	if err := store.PutProject(ctx, "first", first); err != nil {
		t.Fatalf("put first: %v", err)
	}
	second := project.New(obstacle.Waits)
	second.Name = "empty"
	if err := store.PutProject(ctx, "second", second); err != nil {
		t.Fatalf("put second: %v", err)
	}

	got, err := store.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	want := []storage.ProjectSummary{
		{ID: "second", Name: "empty", Number: 1, Counts: 1, Locations: 0, CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base.Add(2 * time.Minute)},
		{ID: "first", Name: "spiral", Number: 2, Counts: 2, Locations: 3, CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("summaries = %+v, want %+v", got, want)
	}

	// Replacing keeps the creation time.
	if err := store.PutProject(ctx, "first", first); err != nil {
		t.Fatalf("replace first: %v", err)
	}
	got, err = store.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if got[0].ID != "first" || !got[0].CreatedAt.Equal(base.Add(time.Minute)) || !got[0].UpdatedAt.Equal(base.Add(3*time.Minute)) {
		t.Fatalf("replaced summary = %+v", got[0])
	}
}

func TestDeleteProject(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if err := store.PutProject(ctx, "spiral", sampleProject(t)); err != nil {
		t.Fatalf("put project: %v", err)
	}
	if err := store.DeleteProject(ctx, "spiral"); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if _, err := store.GetProject(ctx, "spiral"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted = %v, want ErrNotFound", err)
	}
	if err := store.DeleteProject(ctx, "spiral"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete twice = %v, want ErrNotFound", err)
	}

	var rows int
	if err := store.sqlDB.QueryRow(`SELECT COUNT(*) FROM project_explosions`).Scan(&rows); err != nil {
		t.Fatalf("count explosions: %v", err)
	}
	if rows != 0 {
		t.Fatalf("explosion rows = %d, want 0", rows)
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if err := store.PutProject(ctx, " ", sampleProject(t)); err == nil {
		t.Fatal("expected error for blank id")
	}
	if err := store.PutProject(ctx, "x", nil); err == nil {
		t.Fatal("expected error for nil project")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := store.ListProjects(canceled); !errors.Is(err, context.Canceled) {
		t.Fatalf("list with canceled context = %v, want context.Canceled", err)
	}

	var nilStore *Store
	if _, err := nilStore.GetProject(ctx, "x"); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func sampleProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New(obstacle.Frames)
	p.Name = "spiral"
	p.Number = 2
	p.Naming = location.NamingPolicy{Prefix: "sp", Convention: location.Upper, IDOffset: 4}
	for i := 0; i < 3; i++ {
		if _, err := p.AddLocation(location.Rect{X: float64(96 * i), Y: 32, Width: 3, Height: 2}); err != nil {
			t.Fatalf("add location: %v", err)
		}
	}
	if err := p.Obstacle.InsertCount(2); err != nil {
		t.Fatalf("insert count: %v", err)
	}
	if err := p.Obstacle.SetDelay(2, 12); err != nil {
		t.Fatalf("set delay: %v", err)
	}
	p.Obstacle.PlaceExplosion(1, 1, 47, 1, location.Point{X: 16, Y: 16})
	p.Obstacle.PlaceExplosion(2, 1, 1332, 3, location.Point{X: 48.5, Y: 40})
	p.Obstacle.TryPlaceWall(1, 1, 156, 2, location.Point{X: 48, Y: 48})
	p.Obstacle.TryRemoveWall(2, obstacle.WallKill, 2, location.Point{X: 48, Y: 48})
	p.Obstacle.TryAddTeleport(2, 1, 2, 0, 0, 1, 2)
	p.Obstacle.AddAudio(1, 47, 0)
	return p
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.sqlite")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
