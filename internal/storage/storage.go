package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/project"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// NotFound returns a coded error for a missing project that still matches
// ErrNotFound.
func NotFound(id string) error {
	return apperrors.WrapWithMetadata(apperrors.CodeNotFound, "project not found", map[string]string{
		"ID": id,
	}, ErrNotFound)
}

// ProjectSummary describes one stored project without its events.
type ProjectSummary struct {
	ID        string
	Name      string
	Number    int
	Counts    int
	Locations int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectStore persists whole projects keyed by library ID.
type ProjectStore interface {
	// PutProject creates or replaces the project stored under id.
	PutProject(ctx context.Context, id string, p *project.Project) error
	// GetProject loads the project stored under id.
	GetProject(ctx context.Context, id string) (*project.Project, error)
	// ListProjects returns summaries, most recently updated first.
	ListProjects(ctx context.Context) ([]ProjectSummary, error)
	// DeleteProject removes the project stored under id.
	DeleteProject(ctx context.Context, id string) error
}
